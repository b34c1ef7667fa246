package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stayledger/internal/models"
)

func (h *Handler) ProposeMatches(w http.ResponseWriter, r *http.Request) {
	platform, err := models.ParseChannel(chi.URLParam(r, "platform"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown platform")
		return
	}
	proposals, err := h.reconcile.Propose(r.Context(), chi.URLParam(r, "propertyID"), platform)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, proposals)
}

type confirmMatchesRequest struct {
	// Selections maps payout item IDs to the bank transaction chosen for
	// each; omitted items stay unmatched.
	Selections map[string]string `json:"selections"`
}

func (h *Handler) ConfirmMatches(w http.ResponseWriter, r *http.Request) {
	if _, err := models.ParseChannel(chi.URLParam(r, "platform")); err != nil {
		respondError(w, http.StatusBadRequest, "unknown platform")
		return
	}
	var req confirmMatchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.reconcile.Confirm(r.Context(), chi.URLParam(r, "propertyID"), req.Selections)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
