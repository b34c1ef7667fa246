package parser

import (
	"strconv"
	"strings"
	"time"
)

// headerScanLimit bounds how many preamble lines may precede the header row.
const headerScanLimit = 10

func splitLines(content string) []string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(strings.TrimRight(normalized, "\n"), "\n")
}

// splitFields splits a delimited line respecting double-quoted fields, so
// descriptions containing the delimiter survive intact.
func splitFields(line string, delim rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// findHeader scans the first few lines for a row containing every required
// column name and returns the header line index plus a name→position map.
func findHeader(lines []string, required []string, delim rune) (int, map[string]int, bool) {
	limit := headerScanLimit
	if len(lines) < limit {
		limit = len(lines)
	}
	for i := 0; i < limit; i++ {
		fields := splitFields(lines[i], delim)
		columns := make(map[string]int, len(fields))
		for pos, name := range fields {
			columns[strings.ToLower(name)] = pos
		}
		found := true
		for _, name := range required {
			if _, ok := columns[strings.ToLower(name)]; !ok {
				found = false
				break
			}
		}
		if found {
			return i, columns, true
		}
	}
	return 0, nil, false
}

// field returns the value at a named column, tolerating rows with missing
// trailing columns.
func field(fields []string, columns map[string]int, name string) string {
	pos, ok := columns[strings.ToLower(name)]
	if !ok || pos >= len(fields) {
		return ""
	}
	return fields[pos]
}

// parseDateAt parses a date with the given layout and pins it to noon UTC so
// timezone conversions can never shift it across a day boundary.
func parseDateAt(layout, value string) (time.Time, bool) {
	t, err := time.Parse(layout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC), true
}

// parseAmount converts "1,234.56" (or a bare "1234.56") to minor units.
func parseAmount(value string) (int64, bool) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, false
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return parsePlainAmount(cleaned)
}

// parseAmountDE converts German-formatted "1.234,56" to minor units.
func parseAmountDE(value string) (int64, bool) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, false
	}
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	return parsePlainAmount(cleaned)
}

func parsePlainAmount(cleaned string) (int64, bool) {
	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(strings.TrimPrefix(cleaned, "-"), "+")
	parts := strings.SplitN(cleaned, ".", 2)
	whole, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, false
	}
	frac := int64(0)
	if len(parts) == 2 {
		fracPart := parts[1]
		if len(fracPart) > 2 {
			return 0, false
		}
		for len(fracPart) < 2 {
			fracPart += "0"
		}
		frac, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, false
		}
	}
	minor := whole*100 + frac
	if negative {
		minor = -minor
	}
	return minor, true
}
