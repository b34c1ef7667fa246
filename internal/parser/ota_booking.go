package parser

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Booking.com payout export: one row per reservation with gross, commission
// and net columns plus the payout date the funds were remitted on. Rows
// without a payout date are reservations still awaiting settlement.
func parseBookingCom(content string) PayoutResult {
	lines := splitLines(content)
	headerIdx, columns, ok := findHeader(lines, []string{"Reservation number", "Guest name", "Gross amount", "Commission", "Net amount", "Payout date"}, ',')
	if !ok {
		return PayoutResult{Errors: []string{"booking: header row with reservation/amount/payout columns not found"}}
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
		reference := field(fields, columns, "Reservation number")
		if reference == "" {
			result.Skipped++
			continue
		}
		gross, okGross := parseAmount(field(fields, columns, "Gross amount"))
		commission, okCommission := parseAmount(field(fields, columns, "Commission"))
		net, okNet := parseAmount(field(fields, columns, "Net amount"))
		if !okGross || !okCommission || !okNet {
			result.Errors = append(result.Errors, fmt.Sprintf("booking: line %d: unparseable amounts for reservation %s", i+1, reference))
			continue
		}
		item := PayoutItem{
			Reference:       reference,
			GuestName:       field(fields, columns, "Guest name"),
			GrossMinor:      gross,
			CommissionMinor: commission,
			NetMinor:        net,
			ProviderID:      reference,
		}

		rawDate := field(fields, columns, "Payout date")
		if rawDate == "" {
			result.PendingItems = append(result.PendingItems, item)
			continue
		}
		date, ok := parseDateAt("2006-01-02", rawDate)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("booking: line %d: unparseable payout date %q", i+1, rawDate))
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

func buildPayout(date time.Time, items []PayoutItem) Payout {
	payout := Payout{PayoutDate: date, Items: items}
	for _, item := range items {
		payout.GrossMinor += item.GrossMinor
		payout.CommissionMinor += item.CommissionMinor
		payout.NetMinor += item.NetMinor
	}
	return payout
}
