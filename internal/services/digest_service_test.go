package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayledger/internal/models"
	"stayledger/internal/period"
)

func TestDigestBuild(t *testing.T) {
	ctx := context.Background()
	p := period.Period{Year: 2024, Month: time.March}
	asOf := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

	stores := stubDigestStores{
		countUnmatchedFn: func(_ context.Context, propertyID string) (int64, error) {
			assert.Equal(t, "p-1", propertyID)
			return 3, nil
		},
		cashPositionFn: func(_ context.Context, _ string, from, to time.Time) (int64, error) {
			assert.Equal(t, p.Start(), from)
			assert.Equal(t, p.End(), to)
			return 245050, nil
		},
		listOverdueFn: func(_ context.Context, _ string, got time.Time) ([]models.Invoice, error) {
			assert.Equal(t, asOf, got)
			return []models.Invoice{
				{ID: "inv-1", Status: models.InvoiceSent, TotalMinor: 30000, Currency: "EUR"},
				{ID: "inv-2", Status: models.InvoiceSent, TotalMinor: 22000, Currency: "EUR"},
			}, nil
		},
	}
	svc := NewDigestService(stores, stores, stores)

	digest, err := svc.Build(ctx, "p-1", p, asOf)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", digest.Period)
	assert.Equal(t, int64(3), digest.UnmatchedPayoutItems)
	assert.Equal(t, "2450.50", digest.CashPosition)
	require.Len(t, digest.OverdueInvoices, 2)
	assert.Equal(t, "520.00 EUR", digest.OverdueTotal)
}

func TestDigestBuildRejectsMixedCurrencyOverdue(t *testing.T) {
	ctx := context.Background()
	mixed := stubDigestStores{
		listOverdueFn: func(_ context.Context, _ string, _ time.Time) ([]models.Invoice, error) {
			return []models.Invoice{
				{ID: "inv-1", TotalMinor: 30000, Currency: "EUR"},
				{ID: "inv-2", TotalMinor: 22000, Currency: "GBP"},
			}, nil
		},
	}
	_, err := NewDigestService(mixed, mixed, mixed).Build(ctx, "p-1", period.Period{Year: 2024, Month: time.March}, time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDigestBuildEmptyOverdueIsNotNil(t *testing.T) {
	ctx := context.Background()
	svc := NewDigestService(stubDigestStores{}, stubDigestStores{}, stubDigestStores{})
	digest, err := svc.Build(ctx, "p-1", period.Period{Year: 2024, Month: time.March}, time.Now())
	require.NoError(t, err)
	assert.NotNil(t, digest.OverdueInvoices)
	assert.Empty(t, digest.OverdueInvoices)
	assert.Empty(t, digest.OverdueTotal)
}
