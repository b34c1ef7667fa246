package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"stayledger/internal/middleware"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestLogger())
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/properties/{propertyID}", func(r chi.Router) {
		r.Post("/bookings", h.CreateBooking)
		r.Post("/bookings/{bookingID}/confirm", h.ConfirmBooking)
		r.Post("/bookings/{bookingID}/check-in", h.CheckInBooking)
		r.Post("/bookings/{bookingID}/check-out", h.CheckOutBooking)
		r.Post("/bookings/{bookingID}/cancel", h.CancelBooking)
		r.Post("/bookings/{bookingID}/no-show", h.NoShowBooking)

		r.Post("/imports/preview", h.PreviewImport)
		r.Post("/imports/commit", h.CommitImport)

		r.Get("/reconciliation/{platform}/proposals", h.ProposeMatches)
		r.Post("/reconciliation/{platform}/confirm", h.ConfirmMatches)

		r.Get("/digest", h.GetDigest)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
