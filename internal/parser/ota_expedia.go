package parser

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Expedia partner payout export: one row per reservation with a provider
// transaction ID, used verbatim as the duplicate fingerprint.
func parseExpedia(content string) PayoutResult {
	lines := splitLines(content)
	headerIdx, columns, ok := findHeader(lines, []string{"Transaction ID", "Reservation ID", "Gross Amount", "Commission", "Paid Date"}, ',')
	if !ok {
		return PayoutResult{Errors: []string{"expedia: header row with transaction/reservation/amount columns not found"}}
	}

	var result PayoutResult
	byDate := map[time.Time][]PayoutItem{}
	var dates []time.Time

	for i := headerIdx + 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			result.Skipped++
			continue
		}
		fields := splitFields(line, ',')
		providerID := field(fields, columns, "Transaction ID")
		reference := field(fields, columns, "Reservation ID")
		if providerID == "" || reference == "" {
			result.Skipped++
			continue
		}
		gross, okGross := parseAmount(field(fields, columns, "Gross Amount"))
		commission, okCommission := parseAmount(field(fields, columns, "Commission"))
		if !okGross || !okCommission {
			result.Errors = append(result.Errors, fmt.Sprintf("expedia: line %d: unparseable amounts for reservation %s", i+1, reference))
			continue
		}
		item := PayoutItem{
			Reference:       reference,
			GuestName:       field(fields, columns, "Guest"),
			GrossMinor:      gross,
			CommissionMinor: commission,
			NetMinor:        gross - commission,
			ProviderID:      providerID,
		}

		rawDate := field(fields, columns, "Paid Date")
		if rawDate == "" {
			result.PendingItems = append(result.PendingItems, item)
			continue
		}
		date, ok := parseDateAt("2006-01-02", rawDate)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("expedia: line %d: unparseable paid date %q", i+1, rawDate))
			continue
		}
		if _, seen := byDate[date]; !seen {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], item)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for _, date := range dates {
		result.Payouts = append(result.Payouts, buildPayout(date, byDate[date]))
	}
	return result
}
