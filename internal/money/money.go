package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrTooManyDecimals  = errors.New("amount has too many decimal places")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Money is a fixed-point amount in a currency's minor units. Arithmetic on
// mixed currencies is refused rather than silently coerced.
type Money struct {
	Minor    int64
	Currency string
}

func New(minor int64, currency string) Money {
	return Money{Minor: minor, Currency: currency}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Minor: m.Minor + other.Minor, Currency: m.Currency}, nil
}

func (m Money) IsZero() bool {
	return m.Minor == 0
}

func (m Money) String() string {
	return FormatMinor(m.Minor) + " " + m.Currency
}

// PercentOf applies a fractional rate (0.15 for 15%) to an amount in minor
// units, rounding to the nearest minor unit with banker's rounding.
func PercentOf(minor int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(minor).Mul(rate).RoundBank(0).IntPart()
}

// VATSplit breaks a gross amount into net and tax portions. For
// VAT-inclusive amounts the tax is carved out of the gross; for exclusive
// amounts it is added on top. Returns (net, tax, total) in minor units.
func VATSplit(grossMinor int64, rate decimal.Decimal, inclusive bool) (int64, int64, int64) {
	if rate.IsZero() {
		return grossMinor, 0, grossMinor
	}
	gross := decimal.NewFromInt(grossMinor)
	if inclusive {
		net := gross.Div(decimal.NewFromInt(1).Add(rate)).RoundBank(0).IntPart()
		return net, grossMinor - net, grossMinor
	}
	tax := gross.Mul(rate).RoundBank(0).IntPart()
	return grossMinor, tax, grossMinor + tax
}

// ParseMinor converts a decimal string like "1234.56" to minor units.
// At most two decimal places are accepted.
func ParseMinor(input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	sign := int64(1)
	switch trimmed[0] {
	case '-':
		sign = -1
		trimmed = trimmed[1:]
	case '+':
		trimmed = trimmed[1:]
	}
	parts := strings.SplitN(trimmed, ".", 2)
	wholePart := parts[0]
	if wholePart == "" {
		wholePart = "0"
	}
	if !isDigits(wholePart) {
		return 0, ErrInvalidAmount
	}
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if len(fracPart) > 2 {
		return 0, ErrTooManyDecimals
	}
	if fracPart != "" && !isDigits(fracPart) {
		return 0, ErrInvalidAmount
	}
	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	frac := int64(0)
	if len(fracPart) == 1 {
		frac = int64(fracPart[0]-'0') * 10
	} else if len(fracPart) == 2 {
		value, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		frac = value
	}
	minor := whole*100 + frac
	return sign * minor, nil
}

// FormatMinor renders minor units as a two-decimal string.
func FormatMinor(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	formatted := fmt.Sprintf("%d.%02d", value/100, value%100)
	if negative {
		return "-" + formatted
	}
	return formatted
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
