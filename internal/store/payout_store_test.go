package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"stayledger/internal/models"
)

func TestPayoutStoreMarkItemMatchedGuards(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "is_matched = false") {
				t.Fatalf("match must be guarded on unmatched items: %s", query)
			}
			if args[0] != "tx-1" || args[1] != "item-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewPayoutStore(stubDB{})
	rows, err := store.MarkItemMatched(ctx, execer, "item-1", "tx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
}

func TestPayoutStoreMarkItemMatchedAlreadyTaken(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, _ string, _ ...any) (sql.Result, error) {
			return stubResult{rows: 0}, nil
		},
	}
	store := NewPayoutStore(stubDB{})
	rows, err := store.MarkItemMatched(ctx, execer, "item-1", "tx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows for an already-matched item, got %d", rows)
	}
}

func TestPayoutStoreCreateItemStartsUnmatched(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, _ ...any) (sql.Result, error) {
			if !strings.Contains(query, "false") {
				t.Fatalf("new items must start unmatched: %s", query)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewPayoutStore(stubDB{})
	err := store.CreateItem(ctx, execer, PayoutItemInput{
		ID:         "item-1",
		PayoutID:   "payout-1",
		PropertyID: "p-1",
		Platform:   models.ChannelBookingCom,
		Reference:  "3001",
		NetMinor:   17000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPayoutStoreListUnmatchedItems(t *testing.T) {
	ctx := context.Background()
	store := NewPayoutStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "is_matched = false") {
				t.Fatalf("unexpected query: %s", query)
			}
			if args[0] != "p-1" || args[1] != models.ChannelAirbnb {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]models.OTAPayoutItem) = []models.OTAPayoutItem{{ID: "item-1"}}
			return nil
		},
	})
	items, err := store.ListUnmatchedItems(ctx, "p-1", models.ChannelAirbnb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("unexpected items: %#v", items)
	}
}

func TestPayoutStoreGetItemForUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, _ any, query string, _ ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected row lock in query: %s", query)
			}
			return sql.ErrNoRows
		},
	}
	store := NewPayoutStore(stubDB{})
	_, err := store.GetItemForUpdate(ctx, getter, "p-1", "missing")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
