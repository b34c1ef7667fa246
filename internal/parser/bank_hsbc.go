package parser

import (
	"fmt"
	"strings"
)

// HSBC personal statement export: DD/MM/YYYY dates, separate "Paid out"
// and "Paid in" columns, balance carry rows interleaved with transactions.
func parseHSBC(content string) Result {
	lines := splitLines(content)
	headerIdx, columns, ok := findHeader(lines, []string{"Date", "Description", "Paid out", "Paid in"}, ',')
	if !ok {
		return Result{Errors: []string{"hsbc: header row with Date/Description/Paid out/Paid in not found"}}
	}

	var result Result
	for i := headerIdx + 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			result.Skipped++
			continue
		}
		fields := splitFields(line, ',')
		description := field(fields, columns, "Description")
		if isBalanceRow(field(fields, columns, "Type")) || isBalanceRow(description) {
			result.Skipped++
			continue
		}
		paidOut := field(fields, columns, "Paid out")
		paidIn := field(fields, columns, "Paid in")
		if paidOut == "" && paidIn == "" {
			result.Skipped++
			continue
		}

		date, ok := parseDateAt("02/01/2006", field(fields, columns, "Date"))
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("hsbc: line %d: unparseable date %q", i+1, field(fields, columns, "Date")))
			continue
		}
		direction := DirectionIncome
		raw := paidIn
		if paidIn == "" {
			direction = DirectionExpense
			raw = paidOut
		}
		amount, ok := parseAmount(raw)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("hsbc: line %d: unparseable amount %q", i+1, raw))
			continue
		}
		if amount < 0 {
			amount = -amount
		}
		if amount == 0 {
			result.Skipped++
			continue
		}
		result.Rows = append(result.Rows, RawStatementRow{
			Date:        date,
			Description: description,
			AmountMinor: amount,
			Direction:   direction,
		})
	}
	return result
}

func isBalanceRow(value string) bool {
	upper := strings.ToUpper(value)
	return strings.Contains(upper, "BALANCE BROUGHT FORWARD") ||
		strings.Contains(upper, "BALANCE CARRIED FORWARD") ||
		strings.Contains(upper, "OPENING BALANCE") ||
		strings.Contains(upper, "CLOSING BALANCE")
}
