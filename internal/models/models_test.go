package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBooking() Booking {
	return Booking{
		ID:              "b-1",
		PropertyID:      "p-1",
		GuestName:       "Ada Lovelace",
		CheckIn:         time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC),
		CheckOut:        time.Date(2024, 3, 13, 11, 0, 0, 0, time.UTC),
		Source:          ChannelBookingCom,
		GrossMinor:      30000,
		CommissionMinor: 4500,
		Currency:        "EUR",
		VATRate:         decimal.RequireFromString("0.10"),
		VATInclusive:    true,
		Status:          BookingConfirmed,
	}
}

func TestBookingValidate(t *testing.T) {
	require.NoError(t, validBooking().Validate())

	b := validBooking()
	b.CheckOut = b.CheckIn
	assert.ErrorIs(t, b.Validate(), ErrInvalidStayWindow)

	b = validBooking()
	b.GrossMinor = -1
	assert.ErrorIs(t, b.Validate(), ErrNegativeAmount)

	b = validBooking()
	b.Source = "TRIPADVISOR"
	assert.ErrorIs(t, b.Validate(), ErrUnknownChannel)
}

func TestBookingDerived(t *testing.T) {
	b := validBooking()
	assert.Equal(t, int64(25500), b.NetMinor())
	assert.Equal(t, 3, b.Nights())
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, BookingConfirmed.Terminal())
	assert.False(t, BookingCheckedIn.Terminal())
	assert.True(t, BookingCheckedOut.Terminal())
	assert.True(t, BookingCancelled.Terminal())
	assert.True(t, BookingNoShow.Terminal())
}

func TestChannelProfiles(t *testing.T) {
	profile, ok := ChannelBookingCom.Profile()
	require.True(t, ok)
	assert.Equal(t, "BOOKING.COM", profile.KeywordHint)
	assert.Equal(t, 14, profile.PayoutDelayDays)
	assert.True(t, profile.DefaultCommissionRate.Equal(decimal.NewFromFloat(0.15)))

	_, ok = ChannelDirect.Profile()
	assert.False(t, ok)

	assert.True(t, ChannelAirbnb.Commissioned())
	assert.False(t, ChannelWalkIn.Commissioned())
}

func TestParseChannel(t *testing.T) {
	c, err := ParseChannel("AIRBNB")
	require.NoError(t, err)
	assert.Equal(t, ChannelAirbnb, c)

	_, err = ParseChannel("airbnb")
	assert.ErrorIs(t, err, ErrUnknownChannel)
}
