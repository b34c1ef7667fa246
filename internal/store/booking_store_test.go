package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"stayledger/internal/models"
)

func TestBookingStoreGetByIDScopedToProperty(t *testing.T) {
	ctx := context.Background()
	store := NewBookingStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "property_id = $1 AND id = $2") {
				t.Fatalf("lookup must be property scoped: %s", query)
			}
			*dest.(*models.Booking) = models.Booking{ID: "b-1", Status: models.BookingConfirmed}
			return nil
		},
	})
	booking, err := store.GetByID(ctx, "p-1", "b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != models.BookingConfirmed {
		t.Fatalf("unexpected booking: %#v", booking)
	}
}

func TestBookingStoreGetByIDNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewBookingStore(stubDB{
		getFn: func(_ context.Context, _ any, _ string, _ ...any) error {
			return sql.ErrNoRows
		},
	})
	_, err := store.GetByID(ctx, "p-1", "missing")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingStoreUpdateStatusKeepsReason(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "COALESCE($2, cancel_reason)") {
				t.Fatalf("nil reason must not clear an earlier one: %s", query)
			}
			if args[0] != models.BookingCheckedIn || args[1] != (*string)(nil) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewBookingStore(stubDB{})
	if err := store.UpdateStatus(ctx, execer, "b-1", models.BookingCheckedIn, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
