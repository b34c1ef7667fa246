package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"stayledger/internal/period"
)

func (h *Handler) GetDigest(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	p := period.FromTime(now)
	if raw := r.URL.Query().Get("period"); raw != "" {
		parsed, err := period.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid period, want YYYY-MM")
			return
		}
		p = parsed
	}
	digest, err := h.digest.Build(r.Context(), chi.URLParam(r, "propertyID"), p, now)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, digest)
}
