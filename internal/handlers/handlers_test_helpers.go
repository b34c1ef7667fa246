package handlers

import (
	"context"
	"net/http"
	"time"

	"stayledger/internal/config"
	"stayledger/internal/models"
	"stayledger/internal/period"
	"stayledger/internal/services"
)

type stubBookingOps struct {
	createBookingFn func(ctx context.Context, req services.CreateBookingRequest) (models.Booking, error)
	confirmFn       func(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error)
	checkInFn       func(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error)
	checkOutFn      func(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error)
	cancelFn        func(ctx context.Context, propertyID, bookingID, reason string) (services.TransitionResult, error)
	noShowFn        func(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error)
}

func (s stubBookingOps) CreateBooking(ctx context.Context, req services.CreateBookingRequest) (models.Booking, error) {
	if s.createBookingFn == nil {
		return models.Booking{}, nil
	}
	return s.createBookingFn(ctx, req)
}

func (s stubBookingOps) Confirm(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error) {
	if s.confirmFn == nil {
		return services.TransitionResult{}, nil
	}
	return s.confirmFn(ctx, propertyID, bookingID)
}

func (s stubBookingOps) CheckIn(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error) {
	if s.checkInFn == nil {
		return services.TransitionResult{}, nil
	}
	return s.checkInFn(ctx, propertyID, bookingID)
}

func (s stubBookingOps) CheckOut(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error) {
	if s.checkOutFn == nil {
		return services.TransitionResult{}, nil
	}
	return s.checkOutFn(ctx, propertyID, bookingID)
}

func (s stubBookingOps) Cancel(ctx context.Context, propertyID, bookingID, reason string) (services.TransitionResult, error) {
	if s.cancelFn == nil {
		return services.TransitionResult{}, nil
	}
	return s.cancelFn(ctx, propertyID, bookingID, reason)
}

func (s stubBookingOps) NoShow(ctx context.Context, propertyID, bookingID string) (services.TransitionResult, error) {
	if s.noShowFn == nil {
		return services.TransitionResult{}, nil
	}
	return s.noShowFn(ctx, propertyID, bookingID)
}

type stubImportOps struct {
	previewFn func(ctx context.Context, req services.ImportRequest) (services.ImportPreview, error)
	commitFn  func(ctx context.Context, req services.ImportRequest) (services.CommitResult, error)
}

func (s stubImportOps) Preview(ctx context.Context, req services.ImportRequest) (services.ImportPreview, error) {
	if s.previewFn == nil {
		return services.ImportPreview{}, nil
	}
	return s.previewFn(ctx, req)
}

func (s stubImportOps) Commit(ctx context.Context, req services.ImportRequest) (services.CommitResult, error) {
	if s.commitFn == nil {
		return services.CommitResult{}, nil
	}
	return s.commitFn(ctx, req)
}

type stubReconcileOps struct {
	proposeFn func(ctx context.Context, propertyID string, platform models.Channel) ([]services.MatchProposal, error)
	confirmFn func(ctx context.Context, propertyID string, selections map[string]string) (services.ConfirmResult, error)
}

func (s stubReconcileOps) Propose(ctx context.Context, propertyID string, platform models.Channel) ([]services.MatchProposal, error) {
	if s.proposeFn == nil {
		return nil, nil
	}
	return s.proposeFn(ctx, propertyID, platform)
}

func (s stubReconcileOps) Confirm(ctx context.Context, propertyID string, selections map[string]string) (services.ConfirmResult, error) {
	if s.confirmFn == nil {
		return services.ConfirmResult{}, nil
	}
	return s.confirmFn(ctx, propertyID, selections)
}

type stubDigestOps struct {
	buildFn func(ctx context.Context, propertyID string, p period.Period, asOf time.Time) (services.Digest, error)
}

func (s stubDigestOps) Build(ctx context.Context, propertyID string, p period.Period, asOf time.Time) (services.Digest, error) {
	if s.buildFn == nil {
		return services.Digest{}, nil
	}
	return s.buildFn(ctx, propertyID, p, asOf)
}

func newTestRouter(bookings BookingOps, imports ImportOps, reconcile ReconcileOps, digest DigestOps) http.Handler {
	cfg := config.Config{AllowedOrigins: "*", LogLevel: "disabled", LogFormat: "json"}
	return New(cfg, bookings, imports, reconcile, digest).Routes()
}
