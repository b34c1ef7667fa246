package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stayledger/internal/parser"
	"stayledger/internal/services"
)

type importRequest struct {
	Source            string   `json:"source"`
	Currency          string   `json:"currency"`
	Content           string   `json:"content"`
	IncludeDuplicates []string `json:"include_duplicates"`
}

func (h *Handler) PreviewImport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeImport(w, r)
	if !ok {
		return
	}
	preview, err := h.imports.Preview(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

func (h *Handler) CommitImport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeImport(w, r)
	if !ok {
		return
	}
	result, err := h.imports.Commit(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *Handler) decodeImport(w http.ResponseWriter, r *http.Request) (services.ImportRequest, bool) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return services.ImportRequest{}, false
	}
	source, err := parser.ParseSourceKind(req.Source)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown statement source")
		return services.ImportRequest{}, false
	}
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return services.ImportRequest{}, false
	}
	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}
	return services.ImportRequest{
		PropertyID:        chi.URLParam(r, "propertyID"),
		Source:            source,
		Currency:          currency,
		Content:           req.Content,
		IncludeDuplicates: req.IncludeDuplicates,
	}, true
}
