package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHSBC(t *testing.T) {
	content := "Date,Type,Description,Paid out,Paid in,Balance\n" +
		"01/03/2024,CR,BOOKING.COM BV PAYOUT,,\"1,250.00\",5000.00\n" +
		"02/03/2024,DD,SPARKLE CLEANING,85.50,,4914.50\n" +
		"03/03/2024,BAL,BALANCE CARRIED FORWARD,,,4914.50\n"

	result, err := ParseBank(SourceHSBC, content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Skipped)

	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), result.Rows[0].Date)
	assert.Equal(t, DirectionIncome, result.Rows[0].Direction)
	assert.Equal(t, int64(125000), result.Rows[0].AmountMinor)
	assert.Equal(t, "BOOKING.COM BV PAYOUT", result.Rows[0].Description)

	assert.Equal(t, DirectionExpense, result.Rows[1].Direction)
	assert.Equal(t, int64(8550), result.Rows[1].AmountMinor)
}

func TestParseHSBCBadRowReported(t *testing.T) {
	content := "Date,Type,Description,Paid out,Paid in,Balance\n" +
		"31/13/2024,CR,WEIRD DATE,,100.00,\n" +
		"02/03/2024,DD,OK ROW,50.00,,\n"

	result, err := ParseBank(SourceHSBC, content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unparseable date")
}

func TestParseHSBCOverPreciseAmountRejected(t *testing.T) {
	content := "Date,Type,Description,Paid out,Paid in,Balance\n" +
		"01/03/2024,CR,FX SETTLEMENT,,10.999,\n" +
		"02/03/2024,DD,OK ROW,50.00,,\n"

	result, err := ParseBank(SourceHSBC, content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, int64(5000), result.Rows[0].AmountMinor)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unparseable amount")
}

func TestParseHSBCMissingHeader(t *testing.T) {
	result, err := ParseBank(SourceHSBC, "no,real,columns\n1,2,3\n")
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "header")
}

func TestParseChase(t *testing.T) {
	content := "Posting Date,Description,Amount,Type,Balance\n" +
		"03/05/2024,AIRBNB PAYMENTS,842.10,CREDIT,9000.00\n" +
		"03/06/2024,COMCAST INTERNET,-89.99,DEBIT,8910.01\n"

	result, err := ParseBank(SourceChase, content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Empty(t, result.Errors)

	assert.Equal(t, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), result.Rows[0].Date)
	assert.Equal(t, DirectionIncome, result.Rows[0].Direction)
	assert.Equal(t, int64(84210), result.Rows[0].AmountMinor)

	assert.Equal(t, DirectionExpense, result.Rows[1].Direction)
	assert.Equal(t, int64(8999), result.Rows[1].AmountMinor)
}

func TestParseChaseSignFallback(t *testing.T) {
	content := "Posting Date,Description,Amount,Type,Balance\n" +
		"03/07/2024,REFUND ADJUSTMENT,-25.00,MISC,8885.01\n"

	result, err := ParseBank(SourceChase, content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, DirectionExpense, result.Rows[0].Direction)
	assert.Equal(t, int64(2500), result.Rows[0].AmountMinor)
}

func TestParseWise(t *testing.T) {
	content := "ID,Date,Amount,Description,Running Balance\n" +
		"TRANSFER-123,2024/03/05,1250.00,Booking.com payout,4000.00\n" +
		"TRANSFER-124,2024/03/06,-45.30,Cleaning supplies,3954.70\n"

	result, err := ParseBank(SourceWise, content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Empty(t, result.Errors)

	assert.Equal(t, "TRANSFER-123", result.Rows[0].ProviderID)
	assert.Equal(t, DirectionIncome, result.Rows[0].Direction)
	assert.Equal(t, int64(125000), result.Rows[0].AmountMinor)
	assert.Equal(t, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), result.Rows[0].Date)

	assert.Equal(t, DirectionExpense, result.Rows[1].Direction)
	assert.Equal(t, int64(4530), result.Rows[1].AmountMinor)
}

func TestParseDeutsche(t *testing.T) {
	content := "Konto: DE89370400440532013000\n" +
		"Zeitraum: 01.03.2024 - 31.03.2024\n" +
		"Buchungstag;Wert;Umsatzart;Verwendungszweck;Soll;Haben;Waehrung\n" +
		"20240301;20240301;Anfangssaldo;;;;EUR\n" +
		"20240305;20240305;Gutschrift;BOOKING.COM ZAHLUNG;;1.250,00;EUR\n" +
		"20240306;20240306;Lastschrift;STADTWERKE STROM;-89,10;;EUR\n" +
		"20240331;20240331;Endsaldo;;;;EUR\n"

	result, err := ParseBank(SourceDeutsche, content)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.Skipped)

	assert.Equal(t, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), result.Rows[0].Date)
	assert.Equal(t, DirectionIncome, result.Rows[0].Direction)
	assert.Equal(t, int64(125000), result.Rows[0].AmountMinor)
	assert.Equal(t, "BOOKING.COM ZAHLUNG", result.Rows[0].Description)

	assert.Equal(t, DirectionExpense, result.Rows[1].Direction)
	assert.Equal(t, int64(8910), result.Rows[1].AmountMinor)
}

func TestParseBankUnknownSource(t *testing.T) {
	_, err := ParseBank(SourceAirbnb, "whatever")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestFingerprintStable(t *testing.T) {
	row := RawStatementRow{
		Date:        time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		Description: "Booking.com   BV payout",
		AmountMinor: 125000,
		Direction:   DirectionIncome,
	}
	// Whitespace and case in the description never change the key.
	same := row
	same.Description = "BOOKING.COM BV PAYOUT"
	assert.Equal(t, row.Fingerprint(SourceHSBC), same.Fingerprint(SourceHSBC))

	other := row
	other.AmountMinor = 125001
	assert.NotEqual(t, row.Fingerprint(SourceHSBC), other.Fingerprint(SourceHSBC))

	assert.NotEqual(t, row.Fingerprint(SourceHSBC), row.Fingerprint(SourceChase))
}

func TestFingerprintProviderIDWins(t *testing.T) {
	a := RawStatementRow{ProviderID: "TRANSFER-123", Description: "one", AmountMinor: 100}
	b := RawStatementRow{ProviderID: "TRANSFER-123", Description: "two", AmountMinor: 200}
	assert.Equal(t, a.Fingerprint(SourceWise), b.Fingerprint(SourceWise))

	c := RawStatementRow{ProviderID: "TRANSFER-999", Description: "one", AmountMinor: 100}
	assert.NotEqual(t, a.Fingerprint(SourceWise), c.Fingerprint(SourceWise))
}
