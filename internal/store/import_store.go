package store

import (
	"context"
	"time"
)

// ImportStore remembers the fingerprint of every statement row ever
// committed, scoped per property and source, so re-imports can be flagged.
type ImportStore struct {
	db DB
}

func NewImportStore(db DB) *ImportStore {
	return &ImportStore{db: db}
}

type FingerprintInput struct {
	ID          string
	PropertyID  string
	Source      string
	Fingerprint string
	RowDate     time.Time
}

func (s *ImportStore) Insert(ctx context.Context, tx Execer, input FingerprintInput) error {
	query := `
		INSERT INTO import_fingerprints (id, property_id, source, fingerprint, row_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (property_id, source, fingerprint) DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.PropertyID, input.Source, input.Fingerprint, input.RowDate)
	return err
}

// ListInWindow returns the fingerprints recorded for rows dated inside
// [from, to], the duplicate guard's bounded lookback window.
func (s *ImportStore) ListInWindow(ctx context.Context, propertyID, source string, from, to time.Time) ([]string, error) {
	var fingerprints []string
	err := s.db.SelectContext(ctx, &fingerprints, `
		SELECT fingerprint FROM import_fingerprints
		WHERE property_id = $1 AND source = $2 AND row_date >= $3 AND row_date <= $4
	`, propertyID, source, from, to)
	return fingerprints, err
}
