package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"stayledger/internal/db"
	"stayledger/internal/logger"
	"stayledger/internal/models"
	"stayledger/internal/money"
	"stayledger/internal/store"
)

// BookingService is the booking finance state machine. Every operation is
// one atomic unit against the ledger: all of its writes commit or none do.
type BookingService struct {
	txRunner db.TxRunner
	bookings BookingStore
	ledger   LedgerStore
	invoices InvoiceStore
	log      zerolog.Logger
}

type BookingStore interface {
	Create(ctx context.Context, tx store.Execer, input store.BookingInput) error
	GetByID(ctx context.Context, propertyID, bookingID string) (models.Booking, error)
	GetForUpdate(ctx context.Context, tx store.Getter, propertyID, bookingID string) (models.Booking, error)
	UpdateStatus(ctx context.Context, tx store.Execer, bookingID string, status models.BookingStatus, cancelReason *string) error
}

type LedgerStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	VoidByBooking(ctx context.Context, tx store.Execer, bookingID string) (int64, error)
}

type InvoiceStore interface {
	Create(ctx context.Context, tx store.Execer, input store.InvoiceInput) error
	GetActiveByBooking(ctx context.Context, tx store.Getter, bookingID string) (models.Invoice, error)
	CancelOpenByBooking(ctx context.Context, tx store.Execer, bookingID string) (int64, error)
	PromoteToSent(ctx context.Context, tx store.Execer, bookingID string) error
}

func NewBookingService(txRunner db.TxRunner, bookings BookingStore, ledger LedgerStore, invoices InvoiceStore) *BookingService {
	return &BookingService{
		txRunner: txRunner,
		bookings: bookings,
		ledger:   ledger,
		invoices: invoices,
		log:      logger.WithComponent("booking-service"),
	}
}

type CreateBookingRequest struct {
	PropertyID      string
	RoomID          *string
	GuestName       string
	CheckIn         time.Time
	CheckOut        time.Time
	Source          models.Channel
	GrossMinor      int64
	CommissionMinor *int64
	Currency        string
	VATRate         decimal.Decimal
	VATInclusive    bool
}

// CreateBooking validates and persists a new reservation in CONFIRMED
// state. Commission defaults from the channel profile when not supplied.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (models.Booking, error) {
	commission := int64(0)
	if req.CommissionMinor != nil {
		commission = *req.CommissionMinor
	} else if profile, ok := req.Source.Profile(); ok {
		commission = money.PercentOf(req.GrossMinor, profile.DefaultCommissionRate)
	}
	booking := models.Booking{
		ID:              uuid.NewString(),
		PropertyID:      req.PropertyID,
		RoomID:          req.RoomID,
		GuestName:       req.GuestName,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Source:          req.Source,
		GrossMinor:      req.GrossMinor,
		CommissionMinor: commission,
		Currency:        req.Currency,
		VATRate:         req.VATRate,
		VATInclusive:    req.VATInclusive,
		Status:          models.BookingConfirmed,
	}
	if err := booking.Validate(); err != nil {
		return models.Booking{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.bookings.Create(ctx, tx, store.BookingInput{
			ID:              booking.ID,
			PropertyID:      booking.PropertyID,
			RoomID:          booking.RoomID,
			GuestName:       booking.GuestName,
			CheckIn:         booking.CheckIn,
			CheckOut:        booking.CheckOut,
			Source:          booking.Source,
			GrossMinor:      booking.GrossMinor,
			CommissionMinor: booking.CommissionMinor,
			Currency:        booking.Currency,
			VATRate:         booking.VATRate,
			VATInclusive:    booking.VATInclusive,
			Status:          booking.Status,
		})
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

// TransitionResult is what a lifecycle operation reports back to the caller.
type TransitionResult struct {
	BookingID     string               `json:"booking_id"`
	Status        models.BookingStatus `json:"status"`
	InvoiceNumber string               `json:"invoice_number,omitempty"`
	Message       string               `json:"message"`
}

// Confirm issues the booking's draft invoice. Calling it again while a
// DRAFT or SENT invoice exists is a no-op returning the existing number.
func (s *BookingService) Confirm(ctx context.Context, propertyID, bookingID string) (TransitionResult, error) {
	var result TransitionResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.bookings.GetForUpdate(ctx, tx, propertyID, bookingID)
		if err != nil {
			return err
		}
		if existing, err := s.invoices.GetActiveByBooking(ctx, tx, booking.ID); err == nil {
			if existing.Status == models.InvoiceDraft || existing.Status == models.InvoiceSent {
				result = TransitionResult{
					BookingID:     booking.ID,
					Status:        booking.Status,
					InvoiceNumber: existing.Number,
					Message:       "invoice already issued",
				}
				return nil
			}
		} else if err != store.ErrNotFound {
			return err
		}
		if booking.Status.Terminal() {
			return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, booking.Status)
		}

		subtotal, tax, total := money.VATSplit(booking.GrossMinor, booking.VATRate, booking.VATInclusive)
		number := newInvoiceNumber(booking.CheckIn)
		if err := s.invoices.Create(ctx, tx, store.InvoiceInput{
			ID:            uuid.NewString(),
			PropertyID:    booking.PropertyID,
			BookingID:     booking.ID,
			Number:        number,
			Status:        models.InvoiceDraft,
			SubtotalMinor: subtotal,
			TaxMinor:      tax,
			TotalMinor:    total,
			Currency:      booking.Currency,
			DueDate:       booking.CheckIn,
		}); err != nil {
			return err
		}
		if booking.Status != models.BookingConfirmed {
			if err := s.bookings.UpdateStatus(ctx, tx, booking.ID, models.BookingConfirmed, nil); err != nil {
				return err
			}
		}
		result = TransitionResult{
			BookingID:     booking.ID,
			Status:        models.BookingConfirmed,
			InvoiceNumber: number,
			Message:       "draft invoice issued",
		}
		return nil
	})
	return result, err
}

// CheckIn moves a CONFIRMED booking to CHECKED_IN. No money moves yet.
func (s *BookingService) CheckIn(ctx context.Context, propertyID, bookingID string) (TransitionResult, error) {
	var result TransitionResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.bookings.GetForUpdate(ctx, tx, propertyID, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingConfirmed {
			return fmt.Errorf("%w: cannot check in from %s", ErrInvalidTransition, booking.Status)
		}
		if err := s.bookings.UpdateStatus(ctx, tx, booking.ID, models.BookingCheckedIn, nil); err != nil {
			return err
		}
		result = TransitionResult{BookingID: booking.ID, Status: models.BookingCheckedIn, Message: "guest checked in"}
		return nil
	})
	return result, err
}

// CheckOut records the booking's revenue: one income transaction for the
// gross amount and, on commissioned channels, one expense for the
// commission. This is the only place booking money enters the ledger.
func (s *BookingService) CheckOut(ctx context.Context, propertyID, bookingID string) (TransitionResult, error) {
	var result TransitionResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.bookings.GetForUpdate(ctx, tx, propertyID, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingCheckedIn {
			return fmt.Errorf("%w: cannot check out from %s", ErrInvalidTransition, booking.Status)
		}

		nights := booking.Nights()
		var invoiceID *string
		if invoice, err := s.invoices.GetActiveByBooking(ctx, tx, booking.ID); err == nil {
			invoiceID = &invoice.ID
		} else if err != store.ErrNotFound {
			return err
		}

		_, tax, _ := money.VATSplit(booking.GrossMinor, booking.VATRate, booking.VATInclusive)
		vatRate := booking.VATRate
		if err := s.ledger.Insert(ctx, tx, store.TransactionInput{
			ID:          uuid.NewString(),
			PropertyID:  booking.PropertyID,
			BookingID:   &booking.ID,
			InvoiceID:   invoiceID,
			Type:        models.TransactionIncome,
			Category:    models.CategoryAccommodation,
			AmountMinor: booking.GrossMinor,
			Currency:    booking.Currency,
			Date:        booking.CheckOut,
			Description: fmt.Sprintf("Stay revenue: %s, %d night(s)", booking.GuestName, nights),
			VATRate:     &vatRate,
			VATMinor:    &tax,
			Status:      models.TransactionPending,
		}); err != nil {
			return err
		}

		if booking.Source.Commissioned() && booking.CommissionMinor > 0 {
			if err := s.ledger.Insert(ctx, tx, store.TransactionInput{
				ID:          uuid.NewString(),
				PropertyID:  booking.PropertyID,
				BookingID:   &booking.ID,
				Type:        models.TransactionExpense,
				Category:    models.CategoryCommission,
				AmountMinor: booking.CommissionMinor,
				Currency:    booking.Currency,
				Date:        booking.CheckOut,
				Description: fmt.Sprintf("%s commission: %s", channelLabel(booking.Source), booking.GuestName),
				Status:      models.TransactionPending,
			}); err != nil {
				return err
			}
		}

		if err := s.invoices.PromoteToSent(ctx, tx, booking.ID); err != nil {
			return err
		}
		if err := s.bookings.UpdateStatus(ctx, tx, booking.ID, models.BookingCheckedOut, nil); err != nil {
			return err
		}
		result = TransitionResult{
			BookingID: booking.ID,
			Status:    models.BookingCheckedOut,
			Message:   fmt.Sprintf("checked out, %d night(s) billed", nights),
		}
		return nil
	})
	if err == nil {
		s.log.Info().Str("booking_id", bookingID).Msg("booking checked out")
	}
	return result, err
}

// Cancel voids every live transaction and open invoice of the booking and
// appends a zero-amount audit row carrying the reason. A second call fails:
// the first one already reached the terminal state.
func (s *BookingService) Cancel(ctx context.Context, propertyID, bookingID, reason string) (TransitionResult, error) {
	var result TransitionResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.bookings.GetForUpdate(ctx, tx, propertyID, bookingID)
		if err != nil {
			return err
		}
		if booking.Status.Terminal() {
			return fmt.Errorf("%w: cannot cancel from %s", ErrInvalidTransition, booking.Status)
		}
		if err := s.voidBookingFinances(ctx, tx, booking, fmt.Sprintf("Booking cancelled: %s", reason)); err != nil {
			return err
		}
		if err := s.bookings.UpdateStatus(ctx, tx, booking.ID, models.BookingCancelled, &reason); err != nil {
			return err
		}
		result = TransitionResult{BookingID: booking.ID, Status: models.BookingCancelled, Message: "booking cancelled"}
		return nil
	})
	return result, err
}

// NoShow is cancellation for a guest who never arrived; the audit row
// records the gross revenue lost for reporting.
func (s *BookingService) NoShow(ctx context.Context, propertyID, bookingID string) (TransitionResult, error) {
	var result TransitionResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		booking, err := s.bookings.GetForUpdate(ctx, tx, propertyID, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingConfirmed {
			return fmt.Errorf("%w: cannot mark no-show from %s", ErrInvalidTransition, booking.Status)
		}
		audit := fmt.Sprintf("No-show: lost gross revenue %s", money.New(booking.GrossMinor, booking.Currency))
		if err := s.voidBookingFinances(ctx, tx, booking, audit); err != nil {
			return err
		}
		reason := "no-show"
		if err := s.bookings.UpdateStatus(ctx, tx, booking.ID, models.BookingNoShow, &reason); err != nil {
			return err
		}
		result = TransitionResult{BookingID: booking.ID, Status: models.BookingNoShow, Message: "booking marked no-show"}
		return nil
	})
	return result, err
}

func (s *BookingService) voidBookingFinances(ctx context.Context, tx *sqlx.Tx, booking models.Booking, auditDescription string) error {
	voided, err := s.ledger.VoidByBooking(ctx, tx, booking.ID)
	if err != nil {
		return err
	}
	if _, err := s.invoices.CancelOpenByBooking(ctx, tx, booking.ID); err != nil {
		return err
	}
	// Zero-amount VOID row: the audit trail of the reversal itself.
	if err := s.ledger.Insert(ctx, tx, store.TransactionInput{
		ID:          uuid.NewString(),
		PropertyID:  booking.PropertyID,
		BookingID:   &booking.ID,
		Type:        models.TransactionIncome,
		Category:    models.CategoryOther,
		AmountMinor: 0,
		Currency:    booking.Currency,
		Date:        time.Now().UTC(),
		Description: auditDescription,
		Status:      models.TransactionVoid,
	}); err != nil {
		return err
	}
	s.log.Info().Str("booking_id", booking.ID).Int64("voided", voided).Msg("booking finances voided")
	return nil
}

func newInvoiceNumber(checkIn time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("INV-%s-%s", checkIn.Format("200601"), suffix)
}

func channelLabel(c models.Channel) string {
	switch c {
	case models.ChannelBookingCom:
		return "Booking.com"
	case models.ChannelAirbnb:
		return "Airbnb"
	case models.ChannelExpedia:
		return "Expedia"
	default:
		return string(c)
	}
}
