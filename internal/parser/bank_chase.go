package parser

import (
	"fmt"
	"strings"
)

// Chase checking export: MM/DD/YYYY posting dates, one signed Amount column
// plus a DEBIT/CREDIT type label.
func parseChase(content string) Result {
	lines := splitLines(content)
	headerIdx, columns, ok := findHeader(lines, []string{"Posting Date", "Description", "Amount", "Type"}, ',')
	if !ok {
		return Result{Errors: []string{"chase: header row with Posting Date/Description/Amount/Type not found"}}
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

		date, ok := parseDateAt("01/02/2006", field(fields, columns, "Posting Date"))
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("chase: line %d: unparseable date %q", i+1, field(fields, columns, "Posting Date")))
			continue
		}
		amount, ok := parseAmount(field(fields, columns, "Amount"))
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("chase: line %d: unparseable amount %q", i+1, field(fields, columns, "Amount")))
			continue
		}
		if amount == 0 {
			result.Skipped++
			continue
		}

		direction := DirectionIncome
		switch strings.ToUpper(field(fields, columns, "Type")) {
		case "DEBIT":
			direction = DirectionExpense
		case "CREDIT":
			direction = DirectionIncome
		default:
			// Fall back on the amount's sign when the label is unfamiliar.
			if amount < 0 {
				direction = DirectionExpense
			}
		}
		if amount < 0 {
			amount = -amount
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
