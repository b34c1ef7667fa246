package categorize

import (
	"strings"

	"stayledger/internal/models"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

type rule struct {
	category   models.Category
	confidence Confidence
	keywords   []string
}

// rules are evaluated top to bottom; the first matching keyword wins.
// Overlapping keywords resolve by position in this list, so OTA names are
// listed before generic vendor terms and specific utilities before the
// catch-all fee rules.
var rules = []rule{
	{models.CategoryOTAPayout, ConfidenceHigh, []string{"booking.com", "booking com", "airbnb", "expedia"}},
	{models.CategoryPayroll, ConfidenceHigh, []string{"payroll", "salary", "wages"}},
	{models.CategoryTax, ConfidenceHigh, []string{"vat payment", "tax office", "hmrc", "finanzamt", "inland revenue"}},
	{models.CategoryUtilities, ConfidenceHigh, []string{"electric", "gas bill", "water", "internet", "broadband", "telecom"}},
	{models.CategoryCleaning, ConfidenceMedium, []string{"cleaning", "laundry", "linen"}},
	{models.CategoryMaintenance, ConfidenceMedium, []string{"plumb", "repair", "maintenance", "electrician"}},
	{models.CategorySupplies, ConfidenceMedium, []string{"wholesale", "cash and carry", "supplies", "amenities"}},
	{models.CategoryMarketing, ConfidenceMedium, []string{"google ads", "facebook", "advertising"}},
	{models.CategoryBankFees, ConfidenceMedium, []string{"bank fee", "service charge", "account fee", "card fee", "commission charge"}},
	{models.CategoryAccommodation, ConfidenceMedium, []string{"room payment", "accommodation", "stay payment", "guest payment"}},
}

// Categorize maps a bank description to a category with a confidence tier.
// No match yields OTHER at LOW confidence.
func Categorize(description string) (models.Category, Confidence) {
	lowered := strings.ToLower(description)
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(lowered, keyword) {
				return r.category, r.confidence
			}
		}
	}
	return models.CategoryOther, ConfidenceLow
}
