package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"stayledger/internal/period"
)

var (
	ErrInvalidStayWindow = errors.New("check-out must be after check-in")
	ErrNegativeAmount    = errors.New("amounts must not be negative")
	ErrUnknownChannel    = errors.New("unknown booking channel")
)

type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingCheckedIn  BookingStatus = "CHECKED_IN"
	BookingCheckedOut BookingStatus = "CHECKED_OUT"
	BookingCancelled  BookingStatus = "CANCELLED"
	BookingNoShow     BookingStatus = "NO_SHOW"
)

// Terminal reports whether no further lifecycle transition is allowed.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingCheckedOut, BookingCancelled, BookingNoShow:
		return true
	}
	return false
}

type Channel string

const (
	ChannelDirect     Channel = "DIRECT"
	ChannelWalkIn     Channel = "WALK_IN"
	ChannelBookingCom Channel = "BOOKING_COM"
	ChannelAirbnb     Channel = "AIRBNB"
	ChannelExpedia    Channel = "EXPEDIA"
	ChannelOther      Channel = "OTHER"
)

// ChannelProfile carries the per-channel settlement parameters used by the
// state machine and the reconciliation matcher.
type ChannelProfile struct {
	DefaultCommissionRate decimal.Decimal
	KeywordHint           string
	PayoutDelayDays       int
}

var channelProfiles = map[Channel]ChannelProfile{
	ChannelBookingCom: {
		DefaultCommissionRate: decimal.NewFromFloat(0.15),
		KeywordHint:           "BOOKING.COM",
		PayoutDelayDays:       14,
	},
	ChannelAirbnb: {
		DefaultCommissionRate: decimal.NewFromFloat(0.03),
		KeywordHint:           "AIRBNB",
		PayoutDelayDays:       7,
	},
	ChannelExpedia: {
		DefaultCommissionRate: decimal.NewFromFloat(0.18),
		KeywordHint:           "EXPEDIA",
		PayoutDelayDays:       30,
	},
}

// Commissioned reports whether the channel withholds a commission that must
// produce an expense transaction at check-out.
func (c Channel) Commissioned() bool {
	switch c {
	case ChannelBookingCom, ChannelAirbnb, ChannelExpedia:
		return true
	case ChannelDirect, ChannelWalkIn, ChannelOther:
		return false
	}
	return false
}

func (c Channel) Profile() (ChannelProfile, bool) {
	profile, ok := channelProfiles[c]
	return profile, ok
}

func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelDirect, ChannelWalkIn, ChannelBookingCom, ChannelAirbnb, ChannelExpedia, ChannelOther:
		return Channel(s), nil
	}
	return "", ErrUnknownChannel
}

type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

type TransactionStatus string

const (
	TransactionPending    TransactionStatus = "PENDING"
	TransactionCleared    TransactionStatus = "CLEARED"
	TransactionReconciled TransactionStatus = "RECONCILED"
	TransactionVoid       TransactionStatus = "VOID"
)

type Category string

const (
	CategoryAccommodation Category = "ACCOMMODATION"
	CategoryOTAPayout     Category = "OTA_PAYOUT"
	CategoryCommission    Category = "COMMISSION"
	CategoryCleaning      Category = "CLEANING"
	CategoryUtilities     Category = "UTILITIES"
	CategorySupplies      Category = "SUPPLIES"
	CategoryMaintenance   Category = "MAINTENANCE"
	CategoryPayroll       Category = "PAYROLL"
	CategoryTax           Category = "TAX"
	CategoryBankFees      Category = "BANK_FEES"
	CategoryMarketing     Category = "MARKETING"
	CategoryOther         Category = "OTHER"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

type Booking struct {
	ID               string          `db:"id" json:"id"`
	PropertyID       string          `db:"property_id" json:"property_id"`
	RoomID           *string         `db:"room_id" json:"room_id,omitempty"`
	GuestName        string          `db:"guest_name" json:"guest_name"`
	CheckIn          time.Time       `db:"check_in" json:"check_in"`
	CheckOut         time.Time       `db:"check_out" json:"check_out"`
	Source           Channel         `db:"source" json:"source"`
	GrossMinor       int64           `db:"gross_minor" json:"gross_minor"`
	CommissionMinor  int64           `db:"commission_minor" json:"commission_minor"`
	Currency         string          `db:"currency" json:"currency"`
	VATRate          decimal.Decimal `db:"vat_rate" json:"vat_rate"`
	VATInclusive     bool            `db:"vat_inclusive" json:"vat_inclusive"`
	Status           BookingStatus   `db:"status" json:"status"`
	CancelReason     *string         `db:"cancel_reason" json:"cancel_reason,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// NetMinor is the amount the property actually keeps, always derived.
func (b Booking) NetMinor() int64 {
	return b.GrossMinor - b.CommissionMinor
}

func (b Booking) Nights() int {
	return period.Nights(b.CheckIn, b.CheckOut)
}

// Validate rejects a booking before anything is written for it.
func (b Booking) Validate() error {
	if !b.CheckOut.After(b.CheckIn) {
		return ErrInvalidStayWindow
	}
	if b.GrossMinor < 0 || b.CommissionMinor < 0 {
		return ErrNegativeAmount
	}
	if _, err := ParseChannel(string(b.Source)); err != nil {
		return err
	}
	return nil
}

type Transaction struct {
	ID          string            `db:"id" json:"id"`
	PropertyID  string            `db:"property_id" json:"property_id"`
	BookingID   *string           `db:"booking_id" json:"booking_id,omitempty"`
	InvoiceID   *string           `db:"invoice_id" json:"invoice_id,omitempty"`
	Type        TransactionType   `db:"type" json:"type"`
	Category    Category          `db:"category" json:"category"`
	AmountMinor int64             `db:"amount_minor" json:"amount_minor"`
	Currency    string            `db:"currency" json:"currency"`
	Date        time.Time         `db:"date" json:"date"`
	Description string            `db:"description" json:"description"`
	VATRate     *decimal.Decimal  `db:"vat_rate" json:"vat_rate,omitempty"`
	VATMinor    *int64            `db:"vat_minor" json:"vat_minor,omitempty"`
	Status      TransactionStatus `db:"status" json:"status"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}

type Invoice struct {
	ID            string        `db:"id" json:"id"`
	PropertyID    string        `db:"property_id" json:"property_id"`
	BookingID     string        `db:"booking_id" json:"booking_id"`
	Number        string        `db:"number" json:"number"`
	Status        InvoiceStatus `db:"status" json:"status"`
	SubtotalMinor int64         `db:"subtotal_minor" json:"subtotal_minor"`
	TaxMinor      int64         `db:"tax_minor" json:"tax_minor"`
	TotalMinor    int64         `db:"total_minor" json:"total_minor"`
	Currency      string        `db:"currency" json:"currency"`
	DueDate       time.Time     `db:"due_date" json:"due_date"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

type OTAPayout struct {
	ID              string    `db:"id" json:"id"`
	PropertyID      string    `db:"property_id" json:"property_id"`
	Platform        Channel   `db:"platform" json:"platform"`
	PayoutDate      time.Time `db:"payout_date" json:"payout_date"`
	GrossMinor      int64     `db:"gross_minor" json:"gross_minor"`
	CommissionMinor int64     `db:"commission_minor" json:"commission_minor"`
	NetMinor        int64     `db:"net_minor" json:"net_minor"`
	Currency        string    `db:"currency" json:"currency"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type OTAPayoutItem struct {
	ID              string    `db:"id" json:"id"`
	PayoutID        string    `db:"payout_id" json:"payout_id"`
	PropertyID      string    `db:"property_id" json:"property_id"`
	Platform        Channel   `db:"platform" json:"platform"`
	Reference       string    `db:"reference" json:"reference"`
	GuestName       string    `db:"guest_name" json:"guest_name"`
	GrossMinor      int64     `db:"gross_minor" json:"gross_minor"`
	CommissionMinor int64     `db:"commission_minor" json:"commission_minor"`
	NetMinor        int64     `db:"net_minor" json:"net_minor"`
	PayoutDate      time.Time `db:"payout_date" json:"payout_date"`
	IsMatched       bool      `db:"is_matched" json:"is_matched"`
	TransactionID   *string   `db:"transaction_id" json:"transaction_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
