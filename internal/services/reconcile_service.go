package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"stayledger/internal/db"
	"stayledger/internal/logger"
	"stayledger/internal/models"
	"stayledger/internal/money"
	"stayledger/internal/store"
)

// matchEpsilonMinor is the amount tolerance for a payout/transaction pair:
// one minor unit.
const matchEpsilonMinor = 1

type PayoutMatchStore interface {
	ListUnmatchedItems(ctx context.Context, propertyID string, platform models.Channel) ([]models.OTAPayoutItem, error)
	GetItemForUpdate(ctx context.Context, tx store.Getter, propertyID, itemID string) (models.OTAPayoutItem, error)
	MarkItemMatched(ctx context.Context, tx store.Execer, itemID, transactionID string) (int64, error)
}

type ReconcileLedgerStore interface {
	ListUnmatchedIncome(ctx context.Context, propertyID string) ([]models.Transaction, error)
	GetForUpdate(ctx context.Context, tx store.Getter, propertyID, transactionID string) (models.Transaction, error)
	UpdateStatus(ctx context.Context, tx store.Execer, transactionID string, status models.TransactionStatus) error
}

// ReconcileService pairs OTA payout items with the bank transactions that
// deposited their funds. Proposals are HIGH confidence or NONE; nothing in
// between is fabricated by guessing.
type ReconcileService struct {
	txRunner db.TxRunner
	payouts  PayoutMatchStore
	ledger   ReconcileLedgerStore
	log      zerolog.Logger
}

func NewReconcileService(txRunner db.TxRunner, payouts PayoutMatchStore, ledger ReconcileLedgerStore) *ReconcileService {
	return &ReconcileService{
		txRunner: txRunner,
		payouts:  payouts,
		ledger:   ledger,
		log:      logger.WithComponent("reconcile-service"),
	}
}

type MatchConfidence string

const (
	MatchHigh MatchConfidence = "HIGH"
	MatchNone MatchConfidence = "NONE"
)

type TransactionSnapshot struct {
	ID          string    `json:"id"`
	Amount      string    `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

type MatchProposal struct {
	ItemID      string               `json:"item_id"`
	Reference   string               `json:"reference"`
	NetAmount   string               `json:"net_amount"`
	PayoutDate  time.Time            `json:"payout_date"`
	Confidence  MatchConfidence      `json:"confidence"`
	Transaction *TransactionSnapshot `json:"transaction,omitempty"`
	Note        string               `json:"note,omitempty"`
}

// Propose builds one match proposal per unmatched payout item. HIGH needs
// all three of: amount within epsilon, date inside the payout window, and
// the channel keyword in the description. Multiple full matches resolve to
// the earliest-dated transaction; an exact tie is left for manual review.
func (s *ReconcileService) Propose(ctx context.Context, propertyID string, platform models.Channel) ([]MatchProposal, error) {
	profile, ok := platform.Profile()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no payout profile", ErrValidation, platform)
	}
	items, err := s.payouts.ListUnmatchedItems(ctx, propertyID, platform)
	if err != nil {
		return nil, err
	}
	candidates, err := s.ledger.ListUnmatchedIncome(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	used := map[string]bool{}
	proposals := make([]MatchProposal, 0, len(items))
	for _, item := range items {
		proposal := MatchProposal{
			ItemID:     item.ID,
			Reference:  item.Reference,
			NetAmount:  money.FormatMinor(item.NetMinor),
			PayoutDate: item.PayoutDate,
			Confidence: MatchNone,
			Note:       "awaiting posting",
		}
		matched := matchItem(item, candidates, profile, used)
		switch len(matched) {
		case 0:
		case 1:
			s.fillMatch(&proposal, matched[0], used)
		default:
			sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
			if matched[0].Date.Equal(matched[1].Date) {
				proposal.Note = "multiple equal candidates, manual review required"
			} else {
				s.fillMatch(&proposal, matched[0], used)
			}
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

func (s *ReconcileService) fillMatch(proposal *MatchProposal, tx models.Transaction, used map[string]bool) {
	used[tx.ID] = true
	proposal.Confidence = MatchHigh
	proposal.Note = ""
	proposal.Transaction = &TransactionSnapshot{
		ID:          tx.ID,
		Amount:      money.FormatMinor(tx.AmountMinor),
		Date:        tx.Date,
		Description: tx.Description,
	}
}

func matchItem(item models.OTAPayoutItem, candidates []models.Transaction, profile models.ChannelProfile, used map[string]bool) []models.Transaction {
	delay := time.Duration(profile.PayoutDelayDays) * 24 * time.Hour
	windowStart := item.PayoutDate.Add(-delay)
	windowEnd := item.PayoutDate.Add(delay)
	var matched []models.Transaction
	for _, tx := range candidates {
		if used[tx.ID] {
			continue
		}
		diff := tx.AmountMinor - item.NetMinor
		if diff < 0 {
			diff = -diff
		}
		if diff > matchEpsilonMinor {
			continue
		}
		if tx.Date.Before(windowStart) || tx.Date.After(windowEnd) {
			continue
		}
		if !strings.Contains(strings.ToUpper(tx.Description), strings.ToUpper(profile.KeywordHint)) {
			continue
		}
		matched = append(matched, tx)
	}
	return matched
}

type ConfirmResult struct {
	SavedCount int `json:"saved_count"`
}

// Confirm applies a batch of operator-approved matches in one transaction:
// each payout item is linked to its bank transaction and the transaction
// becomes RECONCILED. Items the operator left out stay available for the
// next run.
func (s *ReconcileService) Confirm(ctx context.Context, propertyID string, selections map[string]string) (ConfirmResult, error) {
	if len(selections) == 0 {
		return ConfirmResult{}, nil
	}
	itemIDs := make([]string, 0, len(selections))
	for itemID := range selections {
		itemIDs = append(itemIDs, itemID)
	}
	// Deterministic lock order across concurrent confirmations.
	sort.Strings(itemIDs)

	var result ConfirmResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		result = ConfirmResult{}
		for _, itemID := range itemIDs {
			transactionID := selections[itemID]
			item, err := s.payouts.GetItemForUpdate(ctx, tx, propertyID, itemID)
			if err != nil {
				return err
			}
			if item.IsMatched {
				return fmt.Errorf("%w: payout item %s already matched", ErrConflict, itemID)
			}
			transaction, err := s.ledger.GetForUpdate(ctx, tx, propertyID, transactionID)
			if err != nil {
				return err
			}
			if transaction.Status != models.TransactionPending && transaction.Status != models.TransactionCleared {
				return fmt.Errorf("%w: transaction %s is %s", ErrConflict, transactionID, transaction.Status)
			}
			updated, err := s.payouts.MarkItemMatched(ctx, tx, itemID, transactionID)
			if err != nil {
				return err
			}
			if updated == 0 {
				return fmt.Errorf("%w: payout item %s already matched", ErrConflict, itemID)
			}
			if err := s.ledger.UpdateStatus(ctx, tx, transactionID, models.TransactionReconciled); err != nil {
				return err
			}
			result.SavedCount++
		}
		return nil
	})
	if err != nil {
		return ConfirmResult{}, err
	}
	s.log.Info().Str("property_id", propertyID).Int("saved", result.SavedCount).Msg("reconciliation confirmed")
	return result, nil
}
