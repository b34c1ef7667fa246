package handlers

import (
	"context"
	"time"

	"stayledger/internal/config"
	"stayledger/internal/models"
	"stayledger/internal/period"
	"stayledger/internal/services"
)

type BookingOps interface {
	CreateBooking(ctx context.Context, req services.CreateBookingRequest) (models.Booking, error)
	Confirm(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error)
	CheckIn(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error)
	CheckOut(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error)
	Cancel(ctx context.Context, propertyID, bookingID, reason string) (services.TransitionResult, error)
	NoShow(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error)
}

type ImportOps interface {
	Preview(ctx context.Context, req services.ImportRequest) (services.ImportPreview, error)
	Commit(ctx context.Context, req services.ImportRequest) (services.CommitResult, error)
}

type ReconcileOps interface {
	Propose(ctx context.Context, propertyID string, platform models.Channel) ([]services.MatchProposal, error)
	Confirm(ctx context.Context, propertyID string, selections map[string]string) (services.ConfirmResult, error)
}

type DigestOps interface {
	Build(ctx context.Context, propertyID string, p period.Period, asOf time.Time) (services.Digest, error)
}

type Handler struct {
	cfg       config.Config
	bookings  BookingOps
	imports   ImportOps
	reconcile ReconcileOps
	digest    DigestOps
}

func New(cfg config.Config, bookings BookingOps, imports ImportOps, reconcile ReconcileOps, digest DigestOps) *Handler {
	return &Handler{
		cfg:       cfg,
		bookings:  bookings,
		imports:   imports,
		reconcile: reconcile,
		digest:    digest,
	}
}
