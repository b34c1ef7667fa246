package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownSource = errors.New("unknown statement source")

// SourceKind enumerates every supported export format. Bank kinds produce
// RawStatementRows; OTA kinds produce payout records.
type SourceKind string

const (
	SourceHSBC     SourceKind = "hsbc"
	SourceChase    SourceKind = "chase"
	SourceWise     SourceKind = "wise"
	SourceDeutsche SourceKind = "deutsche"
	SourceAirbnb   SourceKind = "airbnb"
	SourceBooking  SourceKind = "booking"
	SourceExpedia  SourceKind = "expedia"
)

func ParseSourceKind(s string) (SourceKind, error) {
	switch SourceKind(s) {
	case SourceHSBC, SourceChase, SourceWise, SourceDeutsche, SourceAirbnb, SourceBooking, SourceExpedia:
		return SourceKind(s), nil
	}
	return "", ErrUnknownSource
}

func (s SourceKind) IsBank() bool {
	switch s {
	case SourceHSBC, SourceChase, SourceWise, SourceDeutsche:
		return true
	}
	return false
}

func (s SourceKind) IsOTA() bool {
	switch s {
	case SourceAirbnb, SourceBooking, SourceExpedia:
		return true
	}
	return false
}

type Direction string

const (
	DirectionIncome  Direction = "INCOME"
	DirectionExpense Direction = "EXPENSE"
)

// RawStatementRow is one normalized bank statement line. Amounts are
// unsigned magnitudes in minor units; the sign lives in Direction.
type RawStatementRow struct {
	Date        time.Time
	Description string
	AmountMinor int64
	Direction   Direction
	// ProviderID is set when the source supplies its own unique row
	// identifier; it then takes precedence in the fingerprint.
	ProviderID string
}

// Fingerprint derives the duplicate-detection key for a row.
func (r RawStatementRow) Fingerprint(source SourceKind) string {
	if r.ProviderID != "" {
		return hashFingerprint(string(source) + "|id|" + r.ProviderID)
	}
	normalized := strings.ToUpper(strings.Join(strings.Fields(r.Description), " "))
	return hashFingerprint(fmt.Sprintf("%s|%s|%d|%s|%s",
		source, r.Date.Format("2006-01-02"), r.AmountMinor, r.Direction, normalized))
}

func hashFingerprint(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// Result is the outcome of parsing one bank statement file. Per-row
// problems are reported as values; only a missing header makes the whole
// file unusable (zero rows plus an error).
type Result struct {
	Rows    []RawStatementRow
	Skipped int
	Errors  []string
}

// PayoutItem is one reservation's share of an OTA settlement.
type PayoutItem struct {
	Reference       string
	GuestName       string
	GrossMinor      int64
	CommissionMinor int64
	NetMinor        int64
	ProviderID      string
}

// Payout is one settlement transfer with the items attributed to it.
type Payout struct {
	PayoutDate      time.Time
	GrossMinor      int64
	CommissionMinor int64
	NetMinor        int64
	Items           []PayoutItem
}

// PayoutResult is the outcome of parsing one OTA export. PendingItems are
// completed reservation records no payout row covered yet.
type PayoutResult struct {
	Payouts      []Payout
	PendingItems []PayoutItem
	Skipped      int
	Errors       []string
}

// ItemFingerprint derives the duplicate-detection key for a payout item.
func ItemFingerprint(source SourceKind, item PayoutItem) string {
	if item.ProviderID != "" {
		return hashFingerprint(string(source) + "|id|" + item.ProviderID)
	}
	return hashFingerprint(fmt.Sprintf("%s|%s|%d|%d", source, item.Reference, item.GrossMinor, item.CommissionMinor))
}

// ParseBank dispatches raw statement text to the dialect parser for kind.
func ParseBank(kind SourceKind, content string) (Result, error) {
	switch kind {
	case SourceHSBC:
		return parseHSBC(content), nil
	case SourceChase:
		return parseChase(content), nil
	case SourceWise:
		return parseWise(content), nil
	case SourceDeutsche:
		return parseDeutsche(content), nil
	}
	return Result{}, ErrUnknownSource
}

// ParseOTA dispatches a payout export to the dialect parser for kind.
func ParseOTA(kind SourceKind, content string) (PayoutResult, error) {
	switch kind {
	case SourceAirbnb:
		return parseAirbnb(content), nil
	case SourceBooking:
		return parseBookingCom(content), nil
	case SourceExpedia:
		return parseExpedia(content), nil
	}
	return PayoutResult{}, ErrUnknownSource
}
