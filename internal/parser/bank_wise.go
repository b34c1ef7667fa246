package parser

import (
	"fmt"
	"strings"
)

// Wise statement export: YYYY/MM/DD dates, single signed amount, and a
// provider-assigned transfer ID which serves as the duplicate fingerprint.
func parseWise(content string) Result {
	lines := splitLines(content)
	headerIdx, columns, ok := findHeader(lines, []string{"ID", "Date", "Amount", "Description"}, ',')
	if !ok {
		return Result{Errors: []string{"wise: header row with ID/Date/Amount/Description not found"}}
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
		if isBalanceRow(description) {
			result.Skipped++
			continue
		}

		date, ok := parseDateAt("2006/01/02", field(fields, columns, "Date"))
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("wise: line %d: unparseable date %q", i+1, field(fields, columns, "Date")))
			continue
		}
		amount, ok := parseAmount(field(fields, columns, "Amount"))
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("wise: line %d: unparseable amount %q", i+1, field(fields, columns, "Amount")))
			continue
		}
		if amount == 0 {
			result.Skipped++
			continue
		}
		direction := DirectionIncome
		if amount < 0 {
			direction = DirectionExpense
			amount = -amount
		}
		result.Rows = append(result.Rows, RawStatementRow{
			Date:        date,
			Description: description,
			AmountMinor: amount,
			Direction:   direction,
			ProviderID:  field(fields, columns, "ID"),
		})
	}
	return result
}
