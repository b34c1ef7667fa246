package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stayledger/internal/models"
)

// LedgerStore persists the append-only transaction ledger. Rows are never
// deleted here; reversal is a status change to VOID and corrections are new
// rows.
type LedgerStore struct {
	db DB
}

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

const transactionColumns = `id, property_id, booking_id, invoice_id, type, category,
	amount_minor, currency, date, description, vat_rate, vat_minor, status, created_at`

type TransactionInput struct {
	ID          string
	PropertyID  string
	BookingID   *string
	InvoiceID   *string
	Type        models.TransactionType
	Category    models.Category
	AmountMinor int64
	Currency    string
	Date        time.Time
	Description string
	VATRate     *decimal.Decimal
	VATMinor    *int64
	Status      models.TransactionStatus
}

func (s *LedgerStore) Insert(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, property_id, booking_id, invoice_id, type, category,
			amount_minor, currency, date, description, vat_rate, vat_minor, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.PropertyID, input.BookingID, input.InvoiceID, input.Type, input.Category,
		input.AmountMinor, input.Currency, input.Date, input.Description,
		input.VATRate, input.VATMinor, input.Status,
	)
	return err
}

func (s *LedgerStore) UpdateStatus(ctx context.Context, tx Execer, transactionID string, status models.TransactionStatus) error {
	_, err := tx.ExecContext(ctx, `UPDATE transactions SET status = $1 WHERE id = $2`, status, transactionID)
	return err
}

// VoidByBooking flips every non-VOID transaction of a booking to VOID and
// reports how many rows changed. Nothing is removed.
func (s *LedgerStore) VoidByBooking(ctx context.Context, tx Execer, bookingID string) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		UPDATE transactions SET status = $1
		WHERE booking_id = $2 AND status <> $1
	`, models.TransactionVoid, bookingID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *LedgerStore) ListByBooking(ctx context.Context, propertyID, bookingID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.SelectContext(ctx, &transactions, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE property_id = $1 AND booking_id = $2
		ORDER BY created_at
	`, propertyID, bookingID)
	return transactions, err
}

func (s *LedgerStore) GetForUpdate(ctx context.Context, tx Getter, propertyID, transactionID string) (models.Transaction, error) {
	var transaction models.Transaction
	err := tx.GetContext(ctx, &transaction, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE property_id = $1 AND id = $2
		FOR UPDATE
	`, propertyID, transactionID)
	return transaction, mapNoRows(err)
}

// ListUnmatchedIncome returns income transactions that are live (PENDING or
// CLEARED) and not yet backing any payout item. These are the reconciliation
// matcher's candidate pool.
func (s *LedgerStore) ListUnmatchedIncome(ctx context.Context, propertyID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.SelectContext(ctx, &transactions, `
		SELECT `+prefixedTransactionColumns("t")+`
		FROM transactions t
		WHERE t.property_id = $1
		  AND t.type = $2
		  AND t.status IN ($3, $4)
		  AND NOT EXISTS (
			SELECT 1 FROM ota_payout_items i WHERE i.transaction_id = t.id
		  )
		ORDER BY t.date, t.created_at
	`, propertyID, models.TransactionIncome, models.TransactionPending, models.TransactionCleared)
	return transactions, err
}

// CashPosition is income minus expense over settled (CLEARED or RECONCILED)
// transactions in [from, to). VOID and PENDING rows never count.
func (s *LedgerStore) CashPosition(ctx context.Context, propertyID string, from, to time.Time) (int64, error) {
	var position int64
	err := s.db.GetContext(ctx, &position, `
		SELECT COALESCE(SUM(CASE WHEN type = $2 THEN amount_minor ELSE -amount_minor END), 0)
		FROM transactions
		WHERE property_id = $1
		  AND status IN ($3, $4)
		  AND date >= $5 AND date < $6
	`, propertyID, models.TransactionIncome, models.TransactionCleared, models.TransactionReconciled, from, to)
	return position, err
}

func prefixedTransactionColumns(alias string) string {
	return alias + `.id, ` + alias + `.property_id, ` + alias + `.booking_id, ` + alias + `.invoice_id, ` +
		alias + `.type, ` + alias + `.category, ` + alias + `.amount_minor, ` + alias + `.currency, ` +
		alias + `.date, ` + alias + `.description, ` + alias + `.vat_rate, ` + alias + `.vat_minor, ` +
		alias + `.status, ` + alias + `.created_at`
}
