package parser

import (
	"fmt"
	"strings"
)

// Deutsche Bank export: semicolon-delimited, YYYYMMDD value dates, Soll
// (debit) and Haben (credit) columns in decimal-comma format, with account
// preamble lines and Anfangssaldo/Endsaldo balance rows.
func parseDeutsche(content string) Result {
	lines := splitLines(content)
	headerIdx, columns, ok := findHeader(lines, []string{"Buchungstag", "Verwendungszweck", "Soll", "Haben"}, ';')
	if !ok {
		return Result{Errors: []string{"deutsche: header row with Buchungstag/Verwendungszweck/Soll/Haben not found"}}
	}

	var result Result
	for i := headerIdx + 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			result.Skipped++
			continue
		}
		fields := splitFields(line, ';')
		kind := strings.ToLower(field(fields, columns, "Umsatzart"))
		if strings.Contains(kind, "anfangssaldo") || strings.Contains(kind, "endsaldo") {
			result.Skipped++
			continue
		}
		soll := field(fields, columns, "Soll")
		haben := field(fields, columns, "Haben")
		if soll == "" && haben == "" {
			result.Skipped++
			continue
		}

		date, ok := parseDateAt("20060102", field(fields, columns, "Buchungstag"))
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("deutsche: line %d: unparseable date %q", i+1, field(fields, columns, "Buchungstag")))
			continue
		}
		direction := DirectionIncome
		raw := haben
		if haben == "" {
			direction = DirectionExpense
			raw = soll
		}
		amount, ok := parseAmountDE(raw)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("deutsche: line %d: unparseable amount %q", i+1, raw))
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
			Description: field(fields, columns, "Verwendungszweck"),
			AmountMinor: amount,
			Direction:   direction,
		})
	}
	return result
}
