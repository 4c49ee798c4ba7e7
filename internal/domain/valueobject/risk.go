package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// RiskTier – immutable value object
// ---------------------------------------------------------------------------

// RiskTier classifies a customer's credit behavior. Tiers partition the
// customer population; each tier maps to exactly one behavioral parameter set
// in the risk profile catalog.
type RiskTier struct {
	value string
}

const (
	riskTierExcellent = "EXCELLENT"
	riskTierGood      = "GOOD"
	riskTierFair      = "FAIR"
	riskTierPoor      = "POOR"
)

var (
	RiskTierExcellent = RiskTier{value: riskTierExcellent}
	RiskTierGood      = RiskTier{value: riskTierGood}
	RiskTierFair      = RiskTier{value: riskTierFair}
	RiskTierPoor      = RiskTier{value: riskTierPoor}
)

var validRiskTiers = map[string]RiskTier{
	riskTierExcellent: RiskTierExcellent,
	riskTierGood:      RiskTierGood,
	riskTierFair:      RiskTierFair,
	riskTierPoor:      RiskTierPoor,
}

// AllRiskTiers lists every tier in fixed order (best to worst).
func AllRiskTiers() []RiskTier {
	return []RiskTier{RiskTierExcellent, RiskTierGood, RiskTierFair, RiskTierPoor}
}

// NewRiskTier creates a RiskTier from a raw string.
func NewRiskTier(s string) (RiskTier, error) {
	v, ok := validRiskTiers[s]
	if !ok {
		return RiskTier{}, fmt.Errorf("invalid risk tier: %q", s)
	}
	return v, nil
}

// String returns the string representation of the tier.
func (t RiskTier) String() string { return t.value }

// IsZero returns true if the tier has not been initialised.
func (t RiskTier) IsZero() bool { return t.value == "" }

// Equal returns true when both tiers carry the same value.
func (t RiskTier) Equal(other RiskTier) bool { return t.value == other.value }

// Category maps the customer tier to the loan-level risk category.
func (t RiskTier) Category() RiskCategory {
	switch t.value {
	case riskTierExcellent:
		return RiskCategoryLow
	case riskTierGood:
		return RiskCategoryMedium
	case riskTierFair:
		return RiskCategoryHigh
	default:
		return RiskCategoryCritical
	}
}

// ---------------------------------------------------------------------------
// RiskCategory – immutable value object
// ---------------------------------------------------------------------------

// RiskCategory is the loan-level risk classification derived from the owning
// customer's tier. It drives the default-probability table.
type RiskCategory struct {
	value string
}

const (
	riskCategoryLow      = "LOW"
	riskCategoryMedium   = "MEDIUM"
	riskCategoryHigh     = "HIGH"
	riskCategoryCritical = "CRITICAL"
)

var (
	RiskCategoryLow      = RiskCategory{value: riskCategoryLow}
	RiskCategoryMedium   = RiskCategory{value: riskCategoryMedium}
	RiskCategoryHigh     = RiskCategory{value: riskCategoryHigh}
	RiskCategoryCritical = RiskCategory{value: riskCategoryCritical}
)

var validRiskCategories = map[string]RiskCategory{
	riskCategoryLow:      RiskCategoryLow,
	riskCategoryMedium:   RiskCategoryMedium,
	riskCategoryHigh:     RiskCategoryHigh,
	riskCategoryCritical: RiskCategoryCritical,
}

// AllRiskCategories lists every category in fixed order (best to worst).
func AllRiskCategories() []RiskCategory {
	return []RiskCategory{RiskCategoryLow, RiskCategoryMedium, RiskCategoryHigh, RiskCategoryCritical}
}

// NewRiskCategory creates a RiskCategory from a raw string.
func NewRiskCategory(s string) (RiskCategory, error) {
	v, ok := validRiskCategories[s]
	if !ok {
		return RiskCategory{}, fmt.Errorf("invalid risk category: %q", s)
	}
	return v, nil
}

// String returns the string representation of the category.
func (c RiskCategory) String() string { return c.value }

// IsZero returns true if the category has not been initialised.
func (c RiskCategory) IsZero() bool { return c.value == "" }

// Equal returns true when both categories carry the same value.
func (c RiskCategory) Equal(other RiskCategory) bool { return c.value == other.value }
