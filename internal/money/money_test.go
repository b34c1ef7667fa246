package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinor(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1234.56", 123456},
		{"0.01", 1},
		{"-45.30", -4530},
		{"+7", 700},
		{"100", 10000},
		{"3.5", 350},
		{".99", 99},
	}
	for _, tc := range cases {
		got, err := ParseMinor(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseMinorRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "abc", "1.234", "12.3.4", "1,2"} {
		_, err := ParseMinor(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "1234.56", FormatMinor(123456))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "-45.30", FormatMinor(-4530))
	assert.Equal(t, "0.00", FormatMinor(0))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 99, 100, 123456, -4530} {
		got, err := ParseMinor(FormatMinor(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVATSplitInclusive(t *testing.T) {
	net, tax, total := VATSplit(1000, decimal.RequireFromString("0.15"), true)
	assert.Equal(t, int64(870), net)
	assert.Equal(t, int64(130), tax)
	assert.Equal(t, int64(1000), total)
	assert.Equal(t, total, net+tax)
}

func TestVATSplitExclusive(t *testing.T) {
	net, tax, total := VATSplit(1000, decimal.RequireFromString("0.15"), false)
	assert.Equal(t, int64(1000), net)
	assert.Equal(t, int64(150), tax)
	assert.Equal(t, int64(1150), total)
}

func TestVATSplitZeroRate(t *testing.T) {
	net, tax, total := VATSplit(1000, decimal.Zero, true)
	assert.Equal(t, int64(1000), net)
	assert.Equal(t, int64(0), tax)
	assert.Equal(t, int64(1000), total)
}

func TestVATSplitInclusiveAlwaysSums(t *testing.T) {
	rate := decimal.RequireFromString("0.19")
	for gross := int64(1); gross < 500; gross++ {
		net, tax, total := VATSplit(gross, rate, true)
		require.Equal(t, gross, total)
		require.Equal(t, gross, net+tax, "gross %d", gross)
		require.GreaterOrEqual(t, tax, int64(0))
	}
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, int64(1500), PercentOf(10000, decimal.RequireFromString("0.15")))
	assert.Equal(t, int64(300), PercentOf(10000, decimal.RequireFromString("0.03")))
	// Banker's rounding on the half-cent boundary.
	assert.Equal(t, int64(2), PercentOf(25, decimal.RequireFromString("0.10")))
}

func TestMoneyArithmetic(t *testing.T) {
	a := New(1000, "EUR")
	b := New(250, "EUR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), sum.Minor)

	_, err = a.Add(New(1, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	assert.Equal(t, "10.00 EUR", a.String())
	assert.False(t, a.IsZero())
	assert.True(t, New(0, "EUR").IsZero())
}
