package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stayledger/internal/models"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		description string
		category    models.Category
		confidence  Confidence
	}{
		{"BOOKING.COM BV PAYOUT 2024-03", models.CategoryOTAPayout, ConfidenceHigh},
		{"Airbnb Payments Luxembourg", models.CategoryOTAPayout, ConfidenceHigh},
		{"EXPEDIA INC SETTLEMENT", models.CategoryOTAPayout, ConfidenceHigh},
		{"MONTHLY PAYROLL MARCH", models.CategoryPayroll, ConfidenceHigh},
		{"HMRC VAT PAYMENT Q1", models.CategoryTax, ConfidenceHigh},
		{"CITY WATER WORKS DD", models.CategoryUtilities, ConfidenceHigh},
		{"SPARKLE CLEANING SERVICES", models.CategoryCleaning, ConfidenceMedium},
		{"ACE PLUMBING REPAIR", models.CategoryMaintenance, ConfidenceMedium},
		{"METRO CASH AND CARRY", models.CategorySupplies, ConfidenceMedium},
		{"GOOGLE ADS INVOICE", models.CategoryMarketing, ConfidenceMedium},
		{"MONTHLY SERVICE CHARGE", models.CategoryBankFees, ConfidenceMedium},
		{"GUEST PAYMENT ROOM 12", models.CategoryAccommodation, ConfidenceMedium},
	}
	for _, tc := range cases {
		category, confidence := Categorize(tc.description)
		assert.Equal(t, tc.category, category, "description %q", tc.description)
		assert.Equal(t, tc.confidence, confidence, "description %q", tc.description)
	}
}

func TestCategorizeUnknownFallsBack(t *testing.T) {
	category, confidence := Categorize("XYZ 123 UNRECOGNISED")
	assert.Equal(t, models.CategoryOther, category)
	assert.Equal(t, ConfidenceLow, confidence)
}

func TestCategorizeRuleOrder(t *testing.T) {
	// A payout description mentioning a cleaning keyword still resolves to
	// the OTA rule because rule order decides overlaps.
	category, confidence := Categorize("AIRBNB PAYOUT INCL CLEANING FEE")
	assert.Equal(t, models.CategoryOTAPayout, category)
	assert.Equal(t, ConfidenceHigh, confidence)
}
