package store

import (
	"context"
	"time"

	"stayledger/internal/models"
)

type PayoutStore struct {
	db DB
}

func NewPayoutStore(db DB) *PayoutStore {
	return &PayoutStore{db: db}
}

type PayoutInput struct {
	ID              string
	PropertyID      string
	Platform        models.Channel
	PayoutDate      time.Time
	GrossMinor      int64
	CommissionMinor int64
	NetMinor        int64
	Currency        string
}

type PayoutItemInput struct {
	ID              string
	PayoutID        string
	PropertyID      string
	Platform        models.Channel
	Reference       string
	GuestName       string
	GrossMinor      int64
	CommissionMinor int64
	NetMinor        int64
	PayoutDate      time.Time
}

func (s *PayoutStore) CreatePayout(ctx context.Context, tx Execer, input PayoutInput) error {
	query := `
		INSERT INTO ota_payouts (id, property_id, platform, payout_date,
			gross_minor, commission_minor, net_minor, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.PropertyID, input.Platform, input.PayoutDate,
		input.GrossMinor, input.CommissionMinor, input.NetMinor, input.Currency,
	)
	return err
}

func (s *PayoutStore) CreateItem(ctx context.Context, tx Execer, input PayoutItemInput) error {
	query := `
		INSERT INTO ota_payout_items (id, payout_id, property_id, platform, reference,
			guest_name, gross_minor, commission_minor, net_minor, payout_date, is_matched)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.PayoutID, input.PropertyID, input.Platform, input.Reference,
		input.GuestName, input.GrossMinor, input.CommissionMinor, input.NetMinor, input.PayoutDate,
	)
	return err
}

const payoutItemColumns = `id, payout_id, property_id, platform, reference, guest_name,
	gross_minor, commission_minor, net_minor, payout_date, is_matched, transaction_id, created_at`

func (s *PayoutStore) ListUnmatchedItems(ctx context.Context, propertyID string, platform models.Channel) ([]models.OTAPayoutItem, error) {
	var items []models.OTAPayoutItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT `+payoutItemColumns+`
		FROM ota_payout_items
		WHERE property_id = $1 AND platform = $2 AND is_matched = false
		ORDER BY payout_date, created_at
	`, propertyID, platform)
	return items, err
}

func (s *PayoutStore) GetItemForUpdate(ctx context.Context, tx Getter, propertyID, itemID string) (models.OTAPayoutItem, error) {
	var item models.OTAPayoutItem
	err := tx.GetContext(ctx, &item, `
		SELECT `+payoutItemColumns+`
		FROM ota_payout_items
		WHERE property_id = $1 AND id = $2
		FOR UPDATE
	`, propertyID, itemID)
	return item, mapNoRows(err)
}

// MarkItemMatched links an item to a bank transaction. The is_matched guard
// plus the unique index on transaction_id enforce 1:1 matching even under
// concurrent confirmations.
func (s *PayoutStore) MarkItemMatched(ctx context.Context, tx Execer, itemID, transactionID string) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		UPDATE ota_payout_items SET is_matched = true, transaction_id = $1
		WHERE id = $2 AND is_matched = false
	`, transactionID, itemID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *PayoutStore) CountUnmatched(ctx context.Context, propertyID string) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM ota_payout_items
		WHERE property_id = $1 AND is_matched = false
	`, propertyID)
	return count, err
}
