package model

import "strings"

// Category is one of the five fixed contractual lock-in risk dimensions
type Category string

const (
	CategoryDataPortability    Category = "data_portability"
	CategoryPricingTerms       Category = "pricing_terms"
	CategorySupportObligations Category = "support_obligations"
	CategoryTerminationExit    Category = "termination_exit"
	CategoryServiceLevel       Category = "service_level"
)

// Categories returns the five categories in evaluation order.
// Clause IDs are numbered in this order, so it must not change.
func Categories() []Category {
	return []Category{
		CategoryDataPortability,
		CategoryPricingTerms,
		CategorySupportObligations,
		CategoryTerminationExit,
		CategoryServiceLevel,
	}
}

// IsValid reports whether c is one of the five known categories
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns the category name with underscores replaced by spaces
func (c Category) Label() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// Title returns the label with each word capitalized (e.g. "Data Portability")
func (c Category) Title() string {
	words := strings.Fields(c.Label())
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// RiskLevel is the severity assigned to a single clause
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
)

// Tier is the LOW/MEDIUM/HIGH classification of a total score
type Tier string

const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// MechanismStandard labels a clause whose text matched none of its
// category's lock-in mechanism patterns.
const MechanismStandard = "standard"

// MechanismLabel renders a mechanism name for humans ("no_sla" -> "no sla")
func MechanismLabel(mechanism string) string {
	return strings.ReplaceAll(mechanism, "_", " ")
}
