package services

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"stayledger/internal/models"
	"stayledger/internal/store"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubBookingStore struct {
	createFn       func(ctx context.Context, tx store.Execer, input store.BookingInput) error
	getByIDFn      func(ctx context.Context, propertyID, bookingID string) (models.Booking, error)
	getForUpdateFn func(ctx context.Context, tx store.Getter, propertyID, bookingID string) (models.Booking, error)
	updateStatusFn func(ctx context.Context, tx store.Execer, bookingID string, status models.BookingStatus, cancelReason *string) error
}

func (s stubBookingStore) Create(ctx context.Context, tx store.Execer, input store.BookingInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubBookingStore) GetByID(ctx context.Context, propertyID, bookingID string) (models.Booking, error) {
	if s.getByIDFn == nil {
		return models.Booking{}, store.ErrNotFound
	}
	return s.getByIDFn(ctx, propertyID, bookingID)
}

func (s stubBookingStore) GetForUpdate(ctx context.Context, tx store.Getter, propertyID, bookingID string) (models.Booking, error) {
	if s.getForUpdateFn == nil {
		return models.Booking{}, store.ErrNotFound
	}
	return s.getForUpdateFn(ctx, tx, propertyID, bookingID)
}

func (s stubBookingStore) UpdateStatus(ctx context.Context, tx store.Execer, bookingID string, status models.BookingStatus, cancelReason *string) error {
	if s.updateStatusFn == nil {
		return nil
	}
	return s.updateStatusFn(ctx, tx, bookingID, status, cancelReason)
}

type stubLedgerStore struct {
	insertFn        func(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	voidByBookingFn func(ctx context.Context, tx store.Execer, bookingID string) (int64, error)
}

func (s stubLedgerStore) Insert(ctx context.Context, tx store.Execer, input store.TransactionInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

func (s stubLedgerStore) VoidByBooking(ctx context.Context, tx store.Execer, bookingID string) (int64, error) {
	if s.voidByBookingFn == nil {
		return 0, nil
	}
	return s.voidByBookingFn(ctx, tx, bookingID)
}

type stubInvoiceStore struct {
	createFn             func(ctx context.Context, tx store.Execer, input store.InvoiceInput) error
	getActiveByBookingFn func(ctx context.Context, tx store.Getter, bookingID string) (models.Invoice, error)
	cancelOpenFn         func(ctx context.Context, tx store.Execer, bookingID string) (int64, error)
	promoteToSentFn      func(ctx context.Context, tx store.Execer, bookingID string) error
}

func (s stubInvoiceStore) Create(ctx context.Context, tx store.Execer, input store.InvoiceInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubInvoiceStore) GetActiveByBooking(ctx context.Context, tx store.Getter, bookingID string) (models.Invoice, error) {
	if s.getActiveByBookingFn == nil {
		return models.Invoice{}, store.ErrNotFound
	}
	return s.getActiveByBookingFn(ctx, tx, bookingID)
}

func (s stubInvoiceStore) CancelOpenByBooking(ctx context.Context, tx store.Execer, bookingID string) (int64, error) {
	if s.cancelOpenFn == nil {
		return 0, nil
	}
	return s.cancelOpenFn(ctx, tx, bookingID)
}

func (s stubInvoiceStore) PromoteToSent(ctx context.Context, tx store.Execer, bookingID string) error {
	if s.promoteToSentFn == nil {
		return nil
	}
	return s.promoteToSentFn(ctx, tx, bookingID)
}

type stubImportStore struct {
	insertFn       func(ctx context.Context, tx store.Execer, input store.FingerprintInput) error
	listInWindowFn func(ctx context.Context, propertyID, source string, from, to time.Time) ([]string, error)
}

func (s stubImportStore) Insert(ctx context.Context, tx store.Execer, input store.FingerprintInput) error {
	if s.insertFn == nil {
		return nil
	}
	return s.insertFn(ctx, tx, input)
}

func (s stubImportStore) ListInWindow(ctx context.Context, propertyID, source string, from, to time.Time) ([]string, error) {
	if s.listInWindowFn == nil {
		return nil, nil
	}
	return s.listInWindowFn(ctx, propertyID, source, from, to)
}

type stubPayoutWriter struct {
	createPayoutFn func(ctx context.Context, tx store.Execer, input store.PayoutInput) error
	createItemFn   func(ctx context.Context, tx store.Execer, input store.PayoutItemInput) error
}

func (s stubPayoutWriter) CreatePayout(ctx context.Context, tx store.Execer, input store.PayoutInput) error {
	if s.createPayoutFn == nil {
		return nil
	}
	return s.createPayoutFn(ctx, tx, input)
}

func (s stubPayoutWriter) CreateItem(ctx context.Context, tx store.Execer, input store.PayoutItemInput) error {
	if s.createItemFn == nil {
		return nil
	}
	return s.createItemFn(ctx, tx, input)
}

type stubPayoutMatchStore struct {
	listUnmatchedFn    func(ctx context.Context, propertyID string, platform models.Channel) ([]models.OTAPayoutItem, error)
	getItemForUpdateFn func(ctx context.Context, tx store.Getter, propertyID, itemID string) (models.OTAPayoutItem, error)
	markItemMatchedFn  func(ctx context.Context, tx store.Execer, itemID, transactionID string) (int64, error)
}

func (s stubPayoutMatchStore) ListUnmatchedItems(ctx context.Context, propertyID string, platform models.Channel) ([]models.OTAPayoutItem, error) {
	if s.listUnmatchedFn == nil {
		return nil, nil
	}
	return s.listUnmatchedFn(ctx, propertyID, platform)
}

func (s stubPayoutMatchStore) GetItemForUpdate(ctx context.Context, tx store.Getter, propertyID, itemID string) (models.OTAPayoutItem, error) {
	if s.getItemForUpdateFn == nil {
		return models.OTAPayoutItem{}, store.ErrNotFound
	}
	return s.getItemForUpdateFn(ctx, tx, propertyID, itemID)
}

func (s stubPayoutMatchStore) MarkItemMatched(ctx context.Context, tx store.Execer, itemID, transactionID string) (int64, error) {
	if s.markItemMatchedFn == nil {
		return 1, nil
	}
	return s.markItemMatchedFn(ctx, tx, itemID, transactionID)
}

type stubReconcileLedgerStore struct {
	listUnmatchedIncomeFn func(ctx context.Context, propertyID string) ([]models.Transaction, error)
	getForUpdateFn        func(ctx context.Context, tx store.Getter, propertyID, transactionID string) (models.Transaction, error)
	updateStatusFn        func(ctx context.Context, tx store.Execer, transactionID string, status models.TransactionStatus) error
}

func (s stubReconcileLedgerStore) ListUnmatchedIncome(ctx context.Context, propertyID string) ([]models.Transaction, error) {
	if s.listUnmatchedIncomeFn == nil {
		return nil, nil
	}
	return s.listUnmatchedIncomeFn(ctx, propertyID)
}

func (s stubReconcileLedgerStore) GetForUpdate(ctx context.Context, tx store.Getter, propertyID, transactionID string) (models.Transaction, error) {
	if s.getForUpdateFn == nil {
		return models.Transaction{}, store.ErrNotFound
	}
	return s.getForUpdateFn(ctx, tx, propertyID, transactionID)
}

func (s stubReconcileLedgerStore) UpdateStatus(ctx context.Context, tx store.Execer, transactionID string, status models.TransactionStatus) error {
	if s.updateStatusFn == nil {
		return nil
	}
	return s.updateStatusFn(ctx, tx, transactionID, status)
}

type stubDigestStores struct {
	countUnmatchedFn func(ctx context.Context, propertyID string) (int64, error)
	cashPositionFn   func(ctx context.Context, propertyID string, from, to time.Time) (int64, error)
	listOverdueFn    func(ctx context.Context, propertyID string, asOf time.Time) ([]models.Invoice, error)
}

func (s stubDigestStores) CountUnmatched(ctx context.Context, propertyID string) (int64, error) {
	if s.countUnmatchedFn == nil {
		return 0, nil
	}
	return s.countUnmatchedFn(ctx, propertyID)
}

func (s stubDigestStores) CashPosition(ctx context.Context, propertyID string, from, to time.Time) (int64, error) {
	if s.cashPositionFn == nil {
		return 0, nil
	}
	return s.cashPositionFn(ctx, propertyID, from, to)
}

func (s stubDigestStores) ListOverdue(ctx context.Context, propertyID string, asOf time.Time) ([]models.Invoice, error) {
	if s.listOverdueFn == nil {
		return nil, nil
	}
	return s.listOverdueFn(ctx, propertyID, asOf)
}
