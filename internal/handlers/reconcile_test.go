package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stayledger/internal/models"
	"stayledger/internal/period"
	"stayledger/internal/services"
)

func TestProposeMatches(t *testing.T) {
	router := newTestRouter(stubBookingOps{}, stubImportOps{}, stubReconcileOps{
		proposeFn: func(_ context.Context, propertyID string, platform models.Channel) ([]services.MatchProposal, error) {
			if propertyID != "p-1" || platform != models.ChannelAirbnb {
				t.Fatalf("unexpected call: %s %s", propertyID, platform)
			}
			return []services.MatchProposal{{ItemID: "item-1", Confidence: services.MatchHigh}}, nil
		},
	}, stubDigestOps{})

	req := httptest.NewRequest(http.MethodGet, "/properties/p-1/reconciliation/AIRBNB/proposals", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var proposals []services.MatchProposal
	if err := json.NewDecoder(rr.Body).Decode(&proposals); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(proposals) != 1 || proposals[0].ItemID != "item-1" {
		t.Fatalf("unexpected proposals: %#v", proposals)
	}
}

func TestProposeMatchesUnknownPlatform(t *testing.T) {
	router := newTestRouter(stubBookingOps{}, stubImportOps{}, stubReconcileOps{}, stubDigestOps{})
	req := httptest.NewRequest(http.MethodGet, "/properties/p-1/reconciliation/TRIPADVISOR/proposals", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestConfirmMatches(t *testing.T) {
	var got map[string]string
	router := newTestRouter(stubBookingOps{}, stubImportOps{}, stubReconcileOps{
		confirmFn: func(_ context.Context, _ string, selections map[string]string) (services.ConfirmResult, error) {
			got = selections
			return services.ConfirmResult{SavedCount: 1}, nil
		},
	}, stubDigestOps{})

	body := []byte(`{"selections":{"item-1":"tx-1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/properties/p-1/reconciliation/BOOKING_COM/confirm", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got["item-1"] != "tx-1" {
		t.Fatalf("unexpected selections: %#v", got)
	}
}

func TestConfirmMatchesConflict(t *testing.T) {
	router := newTestRouter(stubBookingOps{}, stubImportOps{}, stubReconcileOps{
		confirmFn: func(_ context.Context, _ string, _ map[string]string) (services.ConfirmResult, error) {
			return services.ConfirmResult{}, services.ErrConflict
		},
	}, stubDigestOps{})

	body := []byte(`{"selections":{"item-1":"tx-1"}}`)
	req := httptest.NewRequest(http.MethodPost, "/properties/p-1/reconciliation/BOOKING_COM/confirm", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestGetDigestWithPeriod(t *testing.T) {
	router := newTestRouter(stubBookingOps{}, stubImportOps{}, stubReconcileOps{}, stubDigestOps{
		buildFn: func(_ context.Context, _ string, p period.Period, _ time.Time) (services.Digest, error) {
			return services.Digest{Period: p.String()}, nil
		},
	})
	req := httptest.NewRequest(http.MethodGet, "/properties/p-1/digest?period=2024-03", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var digest services.Digest
	if err := json.NewDecoder(rr.Body).Decode(&digest); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if digest.Period != "2024-03" {
		t.Fatalf("unexpected period: %s", digest.Period)
	}
}

func TestGetDigestBadPeriod(t *testing.T) {
	router := newTestRouter(stubBookingOps{}, stubImportOps{}, stubReconcileOps{}, stubDigestOps{})
	req := httptest.NewRequest(http.MethodGet, "/properties/p-1/digest?period=march", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
