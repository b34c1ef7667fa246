package store

import (
	"context"
	"time"

	"stayledger/internal/models"
)

type InvoiceStore struct {
	db DB
}

func NewInvoiceStore(db DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

const invoiceColumns = `id, property_id, booking_id, number, status,
	subtotal_minor, tax_minor, total_minor, currency, due_date, created_at`

type InvoiceInput struct {
	ID            string
	PropertyID    string
	BookingID     string
	Number        string
	Status        models.InvoiceStatus
	SubtotalMinor int64
	TaxMinor      int64
	TotalMinor    int64
	Currency      string
	DueDate       time.Time
}

func (s *InvoiceStore) Create(ctx context.Context, tx Execer, input InvoiceInput) error {
	query := `
		INSERT INTO invoices (id, property_id, booking_id, number, status,
			subtotal_minor, tax_minor, total_minor, currency, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.PropertyID, input.BookingID, input.Number, input.Status,
		input.SubtotalMinor, input.TaxMinor, input.TotalMinor, input.Currency, input.DueDate,
	)
	return err
}

// GetActiveByBooking returns the booking's one non-cancelled invoice,
// ErrNotFound when there is none.
func (s *InvoiceStore) GetActiveByBooking(ctx context.Context, tx Getter, bookingID string) (models.Invoice, error) {
	var invoice models.Invoice
	err := tx.GetContext(ctx, &invoice, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE booking_id = $1 AND status <> $2
		ORDER BY created_at DESC
		LIMIT 1
	`, bookingID, models.InvoiceCancelled)
	return invoice, mapNoRows(err)
}

func (s *InvoiceStore) UpdateStatus(ctx context.Context, tx Execer, invoiceID string, status models.InvoiceStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE invoices SET status = $1 WHERE id = $2`, status, invoiceID)
	return err
}

// CancelOpenByBooking cancels DRAFT and SENT invoices; PAID invoices are
// terminal and stay untouched.
func (s *InvoiceStore) CancelOpenByBooking(ctx context.Context, tx Execer, bookingID string) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		UPDATE invoices SET status = $1
		WHERE booking_id = $2 AND status IN ($3, $4)
	`, models.InvoiceCancelled, bookingID, models.InvoiceDraft, models.InvoiceSent)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// PromoteToSent moves the booking's DRAFT invoice to SENT; already-SENT
// invoices are left alone.
func (s *InvoiceStore) PromoteToSent(ctx context.Context, tx Execer, bookingID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE invoices SET status = $1
		WHERE booking_id = $2 AND status = $3
	`, models.InvoiceSent, bookingID, models.InvoiceDraft)
	return err
}

func (s *InvoiceStore) ListOverdue(ctx context.Context, propertyID string, asOf time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.SelectContext(ctx, &invoices, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE property_id = $1 AND status = $2 AND due_date < $3
		ORDER BY due_date
	`, propertyID, models.InvoiceSent, asOf)
	return invoices, err
}
