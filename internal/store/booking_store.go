package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stayledger/internal/models"
)

type BookingStore struct {
	db DB
}

func NewBookingStore(db DB) *BookingStore {
	return &BookingStore{db: db}
}

const bookingColumns = `id, property_id, room_id, guest_name, check_in, check_out, source,
	gross_minor, commission_minor, currency, vat_rate, vat_inclusive, status, cancel_reason,
	created_at, updated_at`

type BookingInput struct {
	ID              string
	PropertyID      string
	RoomID          *string
	GuestName       string
	CheckIn         time.Time
	CheckOut        time.Time
	Source          models.Channel
	GrossMinor      int64
	CommissionMinor int64
	Currency        string
	VATRate         decimal.Decimal
	VATInclusive    bool
	Status          models.BookingStatus
}

func (s *BookingStore) Create(ctx context.Context, tx Execer, input BookingInput) error {
	query := `
		INSERT INTO bookings (id, property_id, room_id, guest_name, check_in, check_out, source,
			gross_minor, commission_minor, currency, vat_rate, vat_inclusive, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.PropertyID, input.RoomID, input.GuestName, input.CheckIn, input.CheckOut,
		input.Source, input.GrossMinor, input.CommissionMinor, input.Currency,
		input.VATRate, input.VATInclusive, input.Status,
	)
	return err
}

func (s *BookingStore) GetByID(ctx context.Context, propertyID, bookingID string) (models.Booking, error) {
	var booking models.Booking
	err := s.db.GetContext(ctx, &booking, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE property_id = $1 AND id = $2
	`, propertyID, bookingID)
	return booking, mapNoRows(err)
}

// GetForUpdate locks the booking row for the duration of the enclosing
// transaction so concurrent lifecycle transitions serialize.
func (s *BookingStore) GetForUpdate(ctx context.Context, tx Getter, propertyID, bookingID string) (models.Booking, error) {
	var booking models.Booking
	err := tx.GetContext(ctx, &booking, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE property_id = $1 AND id = $2
		FOR UPDATE
	`, propertyID, bookingID)
	return booking, mapNoRows(err)
}

func (s *BookingStore) UpdateStatus(ctx context.Context, tx Execer, bookingID string, status models.BookingStatus, cancelReason *string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE bookings SET status = $1, cancel_reason = COALESCE($2, cancel_reason), updated_at = now()
		WHERE id = $3
	`, status, cancelReason, bookingID)
	return err
}
