package parser

import (
	"fmt"
	"strings"
	"time"
)

// Airbnb transaction history export. One reservation settles across three
// rows sharing a confirmation code (Reservation gross, Host Fee, Cleaning
// Fee); separate Payout rows carry the aggregate transfer to the bank.
// Completed reservation records are attributed to payout rows greedily in
// file order; whatever no payout covers is reported as pending settlement.

// airbnbEpsilonMinor is the attribution tolerance: one minor unit.
const airbnbEpsilonMinor = 1

type airbnbRecord struct {
	reference   string
	guest       string
	gross       int64
	hostFee     int64
	cleaningFee int64
	parts       int
	hasGross    bool
	hasHostFee  bool
	hasCleaning bool
}

func (r airbnbRecord) complete() bool {
	return r.hasGross && r.hasHostFee && r.hasCleaning
}

func (r airbnbRecord) net() int64 {
	return r.gross - r.hostFee - r.cleaningFee
}

type airbnbPayoutRow struct {
	date   time.Time
	amount int64
}

func parseAirbnb(content string) PayoutResult {
	lines := splitLines(content)
	headerIdx, columns, ok := findHeader(lines, []string{"Date", "Type", "Confirmation Code", "Amount"}, ',')
	if !ok {
		return PayoutResult{Errors: []string{"airbnb: header row with Date/Type/Confirmation Code/Amount not found"}}
	}

	var result PayoutResult
	records := map[string]*airbnbRecord{}
	var completed []*airbnbRecord
	var payoutRows []airbnbPayoutRow

	for i := headerIdx + 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			result.Skipped++
			continue
		}
		fields := splitFields(line, ',')
		rowType := strings.ToLower(field(fields, columns, "Type"))
		amount, okAmount := parseAmount(field(fields, columns, "Amount"))
		if !okAmount {
			result.Errors = append(result.Errors, fmt.Sprintf("airbnb: line %d: unparseable amount %q", i+1, field(fields, columns, "Amount")))
			continue
		}
		if amount < 0 {
			amount = -amount
		}

		if rowType == "payout" {
			date, okDate := parseDateAt("01/02/2006", field(fields, columns, "Date"))
			if !okDate {
				result.Errors = append(result.Errors, fmt.Sprintf("airbnb: line %d: unparseable payout date %q", i+1, field(fields, columns, "Date")))
				continue
			}
			payoutRows = append(payoutRows, airbnbPayoutRow{date: date, amount: amount})
			continue
		}

		reference := field(fields, columns, "Confirmation Code")
		if reference == "" {
			result.Skipped++
			continue
		}
		record, exists := records[reference]
		if !exists {
			record = &airbnbRecord{reference: reference}
			records[reference] = record
		}
		record.parts++
		switch rowType {
		case "reservation":
			record.gross = amount
			record.hasGross = true
			record.guest = field(fields, columns, "Guest")
		case "host fee":
			record.hostFee = amount
			record.hasHostFee = true
		case "cleaning fee":
			record.cleaningFee = amount
			record.hasCleaning = true
		default:
			record.parts--
			result.Skipped++
			continue
		}
		if record.complete() {
			completed = append(completed, record)
			delete(records, reference)
		}
	}

	// Orphaned partial composites at end of file are dropped, never
	// finalized with missing parts.
	for _, record := range records {
		result.Skipped += record.parts
	}

	attributed := make([]bool, len(completed))
	for _, payoutRow := range payoutRows {
		remaining := payoutRow.amount
		payout := Payout{PayoutDate: payoutRow.date}
		for idx, record := range completed {
			if attributed[idx] || remaining <= 0 {
				continue
			}
			net := record.net()
			diff := net - remaining
			if diff < 0 {
				diff = -diff
			}
			if diff <= airbnbEpsilonMinor || net <= remaining {
				attributed[idx] = true
				remaining -= net
				payout.Items = append(payout.Items, PayoutItem{
					Reference:       record.reference,
					GuestName:       record.guest,
					GrossMinor:      record.gross,
					CommissionMinor: record.hostFee + record.cleaningFee,
					NetMinor:        net,
					ProviderID:      record.reference,
				})
				payout.GrossMinor += record.gross
				payout.CommissionMinor += record.hostFee + record.cleaningFee
				payout.NetMinor += net
			}
		}
		if len(payout.Items) > 0 {
			result.Payouts = append(result.Payouts, payout)
		}
	}

	for idx, record := range completed {
		if attributed[idx] {
			continue
		}
		result.PendingItems = append(result.PendingItems, PayoutItem{
			Reference:       record.reference,
			GuestName:       record.guest,
			GrossMinor:      record.gross,
			CommissionMinor: record.hostFee + record.cleaningFee,
			NetMinor:        record.net(),
			ProviderID:      record.reference,
		})
	}
	return result
}
