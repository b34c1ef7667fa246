package services

import (
	"context"
	"fmt"
	"time"

	"stayledger/internal/models"
	"stayledger/internal/money"
	"stayledger/internal/period"
)

type DigestPayoutStore interface {
	CountUnmatched(ctx context.Context, propertyID string) (int64, error)
}

type DigestLedgerStore interface {
	CashPosition(ctx context.Context, propertyID string, from, to time.Time) (int64, error)
}

type DigestInvoiceStore interface {
	ListOverdue(ctx context.Context, propertyID string, asOf time.Time) ([]models.Invoice, error)
}

// DigestService serves the read-only queries the periodic digest and alert
// jobs run against the ledger. Only non-VOID, settled rows count.
type DigestService struct {
	payouts  DigestPayoutStore
	ledger   DigestLedgerStore
	invoices DigestInvoiceStore
}

func NewDigestService(payouts DigestPayoutStore, ledger DigestLedgerStore, invoices DigestInvoiceStore) *DigestService {
	return &DigestService{payouts: payouts, ledger: ledger, invoices: invoices}
}

type Digest struct {
	Period               string           `json:"period"`
	UnmatchedPayoutItems int64            `json:"unmatched_payout_items"`
	CashPosition         string           `json:"cash_position"`
	OverdueInvoices      []models.Invoice `json:"overdue_invoices"`
	OverdueTotal         string           `json:"overdue_total,omitempty"`
}

func (s *DigestService) Build(ctx context.Context, propertyID string, p period.Period, asOf time.Time) (Digest, error) {
	unmatched, err := s.payouts.CountUnmatched(ctx, propertyID)
	if err != nil {
		return Digest{}, err
	}
	position, err := s.ledger.CashPosition(ctx, propertyID, p.Start(), p.End())
	if err != nil {
		return Digest{}, err
	}
	overdue, err := s.invoices.ListOverdue(ctx, propertyID, asOf)
	if err != nil {
		return Digest{}, err
	}
	if overdue == nil {
		overdue = []models.Invoice{}
	}
	// Overdue totals only make sense within one currency.
	total := money.Money{}
	for _, invoice := range overdue {
		if total.Currency == "" {
			total.Currency = invoice.Currency
		}
		sum, err := total.Add(money.New(invoice.TotalMinor, invoice.Currency))
		if err != nil {
			return Digest{}, fmt.Errorf("%w: overdue invoices span currencies", ErrValidation)
		}
		total = sum
	}
	digest := Digest{
		Period:               p.String(),
		UnmatchedPayoutItems: unmatched,
		CashPosition:         money.FormatMinor(position),
		OverdueInvoices:      overdue,
	}
	if !total.IsZero() {
		digest.OverdueTotal = total.String()
	}
	return digest, nil
}
