package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"stayledger/internal/models"
	"stayledger/internal/money"
	"stayledger/internal/services"
)

type createBookingRequest struct {
	RoomID           *string `json:"room_id"`
	GuestName        string  `json:"guest_name"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	Source           string  `json:"source"`
	GrossAmount      string  `json:"gross_amount"`
	CommissionAmount *string `json:"commission_amount"`
	Currency         string  `json:"currency"`
	VATRate          string  `json:"vat_rate"`
	VATInclusive     bool    `json:"vat_inclusive"`
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid check_in date")
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid check_out date")
		return
	}
	source, err := models.ParseChannel(req.Source)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unknown source channel")
		return
	}
	grossMinor, err := money.ParseMinor(req.GrossAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid gross_amount")
		return
	}
	var commissionMinor *int64
	if req.CommissionAmount != nil {
		parsed, err := money.ParseMinor(*req.CommissionAmount)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid commission_amount")
			return
		}
		commissionMinor = &parsed
	}
	vatRate := decimal.Zero
	if req.VATRate != "" {
		vatRate, err = decimal.NewFromString(req.VATRate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid vat_rate")
			return
		}
	}
	booking, err := h.bookings.CreateBooking(r.Context(), services.CreateBookingRequest{
		PropertyID:      propertyID,
		RoomID:          req.RoomID,
		GuestName:       req.GuestName,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Source:          source,
		GrossMinor:      grossMinor,
		CommissionMinor: commissionMinor,
		Currency:        req.Currency,
		VATRate:         vatRate,
		VATInclusive:    req.VATInclusive,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, booking)
}

func (h *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.Confirm)
}

func (h *Handler) CheckInBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.CheckIn)
}

func (h *Handler) CheckOutBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.CheckOut)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Reason == "" {
		respondError(w, http.StatusBadRequest, "reason is required")
		return
	}
	result, err := h.bookings.Cancel(r.Context(), chi.URLParam(r, "propertyID"), chi.URLParam(r, "bookingID"), req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) NoShowBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.NoShow)
}

type transitionFn func(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn transitionFn) {
	result, err := fn(r.Context(), chi.URLParam(r, "propertyID"), chi.URLParam(r, "bookingID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
