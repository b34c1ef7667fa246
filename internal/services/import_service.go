package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"stayledger/internal/categorize"
	"stayledger/internal/db"
	"stayledger/internal/logger"
	"stayledger/internal/models"
	"stayledger/internal/money"
	"stayledger/internal/parser"
	"stayledger/internal/store"
)

// duplicateLookbackSlack widens the duplicate guard's window beyond the
// statement's own date range, to catch late postings that drifted across a
// statement boundary.
const duplicateLookbackSlack = 5 * 24 * time.Hour

type ImportStore interface {
	Insert(ctx context.Context, tx store.Execer, input store.FingerprintInput) error
	ListInWindow(ctx context.Context, propertyID, source string, from, to time.Time) ([]string, error)
}

type PayoutWriter interface {
	CreatePayout(ctx context.Context, tx store.Execer, input store.PayoutInput) error
	CreateItem(ctx context.Context, tx store.Execer, input store.PayoutItemInput) error
}

// ImportService turns statement files into ledger rows and payout records,
// with an operator preview between parse and persist. A row flagged as a
// potential duplicate is never imported silently and never dropped
// silently; the operator decides.
type ImportService struct {
	txRunner     db.TxRunner
	fingerprints ImportStore
	ledger       LedgerStore
	payouts      PayoutWriter
	log          zerolog.Logger
}

func NewImportService(txRunner db.TxRunner, fingerprints ImportStore, ledger LedgerStore, payouts PayoutWriter) *ImportService {
	return &ImportService{
		txRunner:     txRunner,
		fingerprints: fingerprints,
		ledger:       ledger,
		payouts:      payouts,
		log:          logger.WithComponent("import-service"),
	}
}

type ImportRequest struct {
	PropertyID string
	Source     parser.SourceKind
	Currency   string
	Content    string
	// IncludeDuplicates lists fingerprints of flagged rows the operator
	// chose to import anyway. Only honored by Commit.
	IncludeDuplicates []string
}

type RowPreview struct {
	Date        time.Time             `json:"date"`
	Description string                `json:"description"`
	Amount      string                `json:"amount"`
	Direction   parser.Direction      `json:"direction"`
	Category    models.Category       `json:"category,omitempty"`
	Confidence  categorize.Confidence `json:"confidence,omitempty"`
	Reference   string                `json:"reference,omitempty"`
	Fingerprint string                `json:"fingerprint"`
	Duplicate   bool                  `json:"duplicate"`
	Pending     bool                  `json:"pending,omitempty"`
}

type ImportPreview struct {
	Source            parser.SourceKind `json:"source"`
	ParsedCount       int               `json:"parsed_count"`
	DuplicateCount    int               `json:"duplicate_count"`
	UnrecognizedCount int               `json:"unrecognized_count"`
	SkippedCount      int               `json:"skipped_count"`
	PendingCount      int               `json:"pending_count,omitempty"`
	Rows              []RowPreview      `json:"rows"`
	Errors            []string          `json:"errors,omitempty"`
}

type CommitResult struct {
	SavedCount        int `json:"saved_count"`
	SkippedDuplicates int `json:"skipped_duplicates"`
}

// Preview parses and fingerprints a statement without persisting anything.
func (s *ImportService) Preview(ctx context.Context, req ImportRequest) (ImportPreview, error) {
	if req.Source.IsBank() {
		result, err := parser.ParseBank(req.Source, req.Content)
		if err != nil {
			return ImportPreview{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if len(result.Rows) == 0 && len(result.Errors) > 0 {
			return ImportPreview{}, fmt.Errorf("%w: %s", ErrParse, result.Errors[0])
		}
		return s.previewBank(ctx, req, result)
	}
	result, err := parser.ParseOTA(req.Source, req.Content)
	if err != nil {
		return ImportPreview{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(result.Payouts) == 0 && len(result.PendingItems) == 0 && len(result.Errors) > 0 {
		return ImportPreview{}, fmt.Errorf("%w: %s", ErrParse, result.Errors[0])
	}
	return s.previewOTA(ctx, req, result)
}

func (s *ImportService) previewBank(ctx context.Context, req ImportRequest, result parser.Result) (ImportPreview, error) {
	seen, err := s.knownFingerprints(ctx, req, rowDates(result.Rows))
	if err != nil {
		return ImportPreview{}, err
	}
	preview := ImportPreview{
		Source:            req.Source,
		ParsedCount:       len(result.Rows),
		UnrecognizedCount: len(result.Errors),
		SkippedCount:      result.Skipped,
		Errors:            result.Errors,
	}
	for _, row := range result.Rows {
		fingerprint := row.Fingerprint(req.Source)
		category, confidence := categorize.Categorize(row.Description)
		duplicate := seen[fingerprint]
		if duplicate {
			preview.DuplicateCount++
		}
		preview.Rows = append(preview.Rows, RowPreview{
			Date:        row.Date,
			Description: row.Description,
			Amount:      money.FormatMinor(row.AmountMinor),
			Direction:   row.Direction,
			Category:    category,
			Confidence:  confidence,
			Fingerprint: fingerprint,
			Duplicate:   duplicate,
		})
	}
	return preview, nil
}

func (s *ImportService) previewOTA(ctx context.Context, req ImportRequest, result parser.PayoutResult) (ImportPreview, error) {
	items, dates := flattenPayoutItems(result)
	seen, err := s.knownFingerprints(ctx, req, dates)
	if err != nil {
		return ImportPreview{}, err
	}
	preview := ImportPreview{
		Source:            req.Source,
		ParsedCount:       len(items),
		UnrecognizedCount: len(result.Errors),
		SkippedCount:      result.Skipped,
		PendingCount:      len(result.PendingItems),
		Errors:            result.Errors,
	}
	for _, entry := range items {
		fingerprint := parser.ItemFingerprint(req.Source, entry.item)
		duplicate := seen[fingerprint]
		if duplicate {
			preview.DuplicateCount++
		}
		preview.Rows = append(preview.Rows, RowPreview{
			Date:        entry.payoutDate,
			Description: fmt.Sprintf("%s payout item %s (%s)", entry.item.Reference, entry.item.GuestName, req.Source),
			Amount:      money.FormatMinor(entry.item.NetMinor),
			Direction:   parser.DirectionIncome,
			Reference:   entry.item.Reference,
			Fingerprint: fingerprint,
			Duplicate:   duplicate,
			Pending:     entry.pending,
		})
	}
	return preview, nil
}

// Commit re-parses the statement and persists every clean row plus the
// duplicates the operator explicitly included, atomically.
func (s *ImportService) Commit(ctx context.Context, req ImportRequest) (CommitResult, error) {
	if req.Source.IsBank() {
		result, err := parser.ParseBank(req.Source, req.Content)
		if err != nil {
			return CommitResult{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if len(result.Rows) == 0 && len(result.Errors) > 0 {
			return CommitResult{}, fmt.Errorf("%w: %s", ErrParse, result.Errors[0])
		}
		return s.commitBank(ctx, req, result)
	}
	result, err := parser.ParseOTA(req.Source, req.Content)
	if err != nil {
		return CommitResult{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return s.commitOTA(ctx, req, result)
}

func (s *ImportService) commitBank(ctx context.Context, req ImportRequest, result parser.Result) (CommitResult, error) {
	seen, err := s.knownFingerprints(ctx, req, rowDates(result.Rows))
	if err != nil {
		return CommitResult{}, err
	}
	included := toSet(req.IncludeDuplicates)
	var outcome CommitResult
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		outcome = CommitResult{}
		for _, row := range result.Rows {
			fingerprint := row.Fingerprint(req.Source)
			if seen[fingerprint] && !included[fingerprint] {
				outcome.SkippedDuplicates++
				continue
			}
			category, _ := categorize.Categorize(row.Description)
			txType := models.TransactionIncome
			if row.Direction == parser.DirectionExpense {
				txType = models.TransactionExpense
			}
			if err := s.ledger.Insert(ctx, tx, store.TransactionInput{
				ID:          uuid.NewString(),
				PropertyID:  req.PropertyID,
				Type:        txType,
				Category:    category,
				AmountMinor: row.AmountMinor,
				Currency:    req.Currency,
				Date:        row.Date,
				Description: row.Description,
				Status:      models.TransactionCleared,
			}); err != nil {
				return err
			}
			if err := s.fingerprints.Insert(ctx, tx, store.FingerprintInput{
				ID:          uuid.NewString(),
				PropertyID:  req.PropertyID,
				Source:      string(req.Source),
				Fingerprint: fingerprint,
				RowDate:     row.Date,
			}); err != nil {
				return err
			}
			outcome.SavedCount++
		}
		return nil
	})
	if err != nil {
		return CommitResult{}, err
	}
	s.log.Info().Str("property_id", req.PropertyID).Str("source", string(req.Source)).
		Int("saved", outcome.SavedCount).Int("duplicates_skipped", outcome.SkippedDuplicates).
		Msg("bank statement committed")
	return outcome, nil
}

func (s *ImportService) commitOTA(ctx context.Context, req ImportRequest, result parser.PayoutResult) (CommitResult, error) {
	_, dates := flattenPayoutItems(result)
	seen, err := s.knownFingerprints(ctx, req, dates)
	if err != nil {
		return CommitResult{}, err
	}
	platform, err := platformFor(req.Source)
	if err != nil {
		return CommitResult{}, err
	}
	included := toSet(req.IncludeDuplicates)
	var outcome CommitResult
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		outcome = CommitResult{}
		for _, payout := range result.Payouts {
			kept := make([]parser.PayoutItem, 0, len(payout.Items))
			for _, item := range payout.Items {
				fingerprint := parser.ItemFingerprint(req.Source, item)
				if seen[fingerprint] && !included[fingerprint] {
					outcome.SkippedDuplicates++
					continue
				}
				kept = append(kept, item)
			}
			if len(kept) == 0 {
				continue
			}
			payoutID := uuid.NewString()
			input := store.PayoutInput{
				ID:         payoutID,
				PropertyID: req.PropertyID,
				Platform:   platform,
				PayoutDate: payout.PayoutDate,
				Currency:   req.Currency,
			}
			for _, item := range kept {
				input.GrossMinor += item.GrossMinor
				input.CommissionMinor += item.CommissionMinor
				input.NetMinor += item.NetMinor
			}
			if err := s.payouts.CreatePayout(ctx, tx, input); err != nil {
				return err
			}
			for _, item := range kept {
				if err := s.payouts.CreateItem(ctx, tx, store.PayoutItemInput{
					ID:              uuid.NewString(),
					PayoutID:        payoutID,
					PropertyID:      req.PropertyID,
					Platform:        platform,
					Reference:       item.Reference,
					GuestName:       item.GuestName,
					GrossMinor:      item.GrossMinor,
					CommissionMinor: item.CommissionMinor,
					NetMinor:        item.NetMinor,
					PayoutDate:      payout.PayoutDate,
				}); err != nil {
					return err
				}
				if err := s.fingerprints.Insert(ctx, tx, store.FingerprintInput{
					ID:          uuid.NewString(),
					PropertyID:  req.PropertyID,
					Source:      string(req.Source),
					Fingerprint: parser.ItemFingerprint(req.Source, item),
					RowDate:     payout.PayoutDate,
				}); err != nil {
					return err
				}
				outcome.SavedCount++
			}
		}
		return nil
	})
	if err != nil {
		return CommitResult{}, err
	}
	s.log.Info().Str("property_id", req.PropertyID).Str("source", string(req.Source)).
		Int("saved", outcome.SavedCount).Int("duplicates_skipped", outcome.SkippedDuplicates).
		Int("pending", len(result.PendingItems)).
		Msg("payout export committed")
	return outcome, nil
}

// knownFingerprints loads the stored fingerprints inside the statement's
// date range widened by the lookback slack.
func (s *ImportService) knownFingerprints(ctx context.Context, req ImportRequest, dates []time.Time) (map[string]bool, error) {
	seen := map[string]bool{}
	if len(dates) == 0 {
		return seen, nil
	}
	from, to := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(from) {
			from = d
		}
		if d.After(to) {
			to = d
		}
	}
	stored, err := s.fingerprints.ListInWindow(ctx, req.PropertyID, string(req.Source),
		from.Add(-duplicateLookbackSlack), to.Add(duplicateLookbackSlack))
	if err != nil {
		return nil, err
	}
	for _, fingerprint := range stored {
		seen[fingerprint] = true
	}
	return seen, nil
}

type flattenedItem struct {
	item       parser.PayoutItem
	payoutDate time.Time
	pending    bool
}

func flattenPayoutItems(result parser.PayoutResult) ([]flattenedItem, []time.Time) {
	var items []flattenedItem
	var dates []time.Time
	for _, payout := range result.Payouts {
		for _, item := range payout.Items {
			items = append(items, flattenedItem{item: item, payoutDate: payout.PayoutDate})
		}
		dates = append(dates, payout.PayoutDate)
	}
	for _, item := range result.PendingItems {
		items = append(items, flattenedItem{item: item, pending: true})
	}
	return items, dates
}

func platformFor(source parser.SourceKind) (models.Channel, error) {
	switch source {
	case parser.SourceAirbnb:
		return models.ChannelAirbnb, nil
	case parser.SourceBooking:
		return models.ChannelBookingCom, nil
	case parser.SourceExpedia:
		return models.ChannelExpedia, nil
	}
	return "", fmt.Errorf("%w: %s is not an OTA source", ErrValidation, source)
}

func rowDates(rows []parser.RawStatementRow) []time.Time {
	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.Date)
	}
	return dates
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return set
}
