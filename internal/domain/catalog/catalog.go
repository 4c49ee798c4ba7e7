package catalog

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// RiskProfileCatalog – immutable reference data for the simulation engine
// ---------------------------------------------------------------------------

// TierProfile holds the behavioral parameters bound to one customer risk tier.
type TierProfile struct {
	// Population is the tier's share of the customer base. Shares across all
	// tiers must sum to 1.0.
	Population float64
	// OnTimeProbability is the per-month chance a payment arrives on its due
	// date.
	OnTimeProbability float64
	// MaxDelayDays bounds the uniform late-days draw for this tier.
	MaxDelayDays int
}

// ApprovalBand maps a minimum credit score to an approval probability.
// Bands are kept in descending MinScore order; the last band is the floor.
type ApprovalBand struct {
	MinScore    int
	Probability float64
}

// BucketPolicy binds a delinquency bucket to its DPD ceiling, collection
// stage, and recovery-percentage range. The terminal bucket has MaxDPD < 0
// (open-ended).
type BucketPolicy struct {
	MaxDPD         int
	Bucket         valueobject.DelinquencyBucket
	Stage          valueobject.CollectionStage
	RecoveryMinPct float64
	RecoveryMaxPct float64
}

// YearMultipliers scales behavior for one calendar year. Only DefaultRate is
// consumed by the core; the other columns ride along for the external
// reference-data generators.
type YearMultipliers struct {
	DefaultRate  float64
	Disbursement float64
	AvgIncome    float64
}

// SeasonalStress models exam-season cash-flow pressure: payments due in the
// listed months pick up an extra delay with the given probability.
type SeasonalStress struct {
	Months       []time.Month
	Probability  float64
	MinExtraDays int
	MaxExtraDays int
}

// Catalog is the read-only reference catalog shared by every loan's
// simulation. It must be treated as immutable after construction; no locks
// are taken around it.
type Catalog struct {
	Tiers         map[valueobject.RiskTier]TierProfile
	ApprovalBands []ApprovalBand
	DefaultRates  map[valueobject.RiskCategory]float64
	Buckets       []BucketPolicy
	Economy       map[int]YearMultipliers
	Seasonal      SeasonalStress

	// MacroShockYears force the "Job Loss" default reason.
	MacroShockYears []int

	// FallbackReasons is the uniform reason pool when no precedence rule fires.
	FallbackReasons []valueobject.DefaultReason

	// Underwriting knobs.
	SanctionIncomeMultiple  float64
	ShortCourseCutoffMonths int
	ShortTermBufferMonths   int
	LongTermBufferMonths    int
	MinDisbursementLagDays  int
	MaxDisbursementLagDays  int

	// Payment-loop knobs.
	ResidualThreshold        decimal.Decimal
	LateFailureThresholdDays int
	LateFailureProbability   float64
	PartialThresholdDays     int
	PartialProbability       float64
	PartialMinFraction       float64
	PartialMaxFraction       float64
	PenaltyPerDay            decimal.Decimal
	// PenaltyCap bounds the per-event penalty; zero means uncapped.
	PenaltyCap   decimal.Decimal
	IterationCap int
}

// TierProfileFor returns the behavioral parameters for a tier.
func (c Catalog) TierProfileFor(t valueobject.RiskTier) (TierProfile, error) {
	p, ok := c.Tiers[t]
	if !ok {
		return TierProfile{}, fmt.Errorf("no behavioral profile for tier %s", t)
	}
	return p, nil
}

// ApprovalProbability returns the approval odds for a credit score.
func (c Catalog) ApprovalProbability(creditScore int) float64 {
	for _, band := range c.ApprovalBands {
		if creditScore >= band.MinScore {
			return band.Probability
		}
	}
	// Bands cover all scores via the MinScore=0 floor; validated on load.
	return 0
}

// DefaultRateFor returns the default probability for a risk category.
func (c Catalog) DefaultRateFor(cat valueobject.RiskCategory) (float64, error) {
	r, ok := c.DefaultRates[cat]
	if !ok {
		return 0, fmt.Errorf("no default rate for risk category %s", cat)
	}
	return r, nil
}

// BucketFor resolves the policy for a days-past-due value.
func (c Catalog) BucketFor(daysPastDue int) BucketPolicy {
	for _, b := range c.Buckets {
		if b.MaxDPD >= 0 && daysPastDue <= b.MaxDPD {
			return b
		}
	}
	return c.Buckets[len(c.Buckets)-1]
}

// DefaultRateMultiplier returns the economic scaling for a disbursement year,
// or 1.0 for years outside the table.
func (c Catalog) DefaultRateMultiplier(year int) float64 {
	if m, ok := c.Economy[year]; ok {
		return m.DefaultRate
	}
	return 1.0
}

// IsMacroShockYear reports whether a year forces the Job Loss default reason.
func (c Catalog) IsMacroShockYear(year int) bool {
	for _, y := range c.MacroShockYears {
		if y == year {
			return true
		}
	}
	return false
}

// IsSeasonalMonth reports whether a due month falls inside the stress window.
func (c Catalog) IsSeasonalMonth(m time.Month) bool {
	for _, sm := range c.Seasonal.Months {
		if sm == m {
			return true
		}
	}
	return false
}

// Validate checks the catalog's internal consistency. An invalid catalog is a
// batch-level fatal error.
func (c Catalog) Validate() error {
	if len(c.Tiers) == 0 {
		return fmt.Errorf("catalog: no tier profiles configured")
	}
	var population float64
	for tier, p := range c.Tiers {
		if p.OnTimeProbability < 0 || p.OnTimeProbability > 1 {
			return fmt.Errorf("catalog: tier %s on-time probability %v outside [0,1]", tier, p.OnTimeProbability)
		}
		if p.MaxDelayDays < 1 {
			return fmt.Errorf("catalog: tier %s max delay days must be at least 1", tier)
		}
		if p.Population < 0 {
			return fmt.Errorf("catalog: tier %s population share is negative", tier)
		}
		population += p.Population
	}
	if math.Abs(population-1.0) > 1e-9 {
		return fmt.Errorf("catalog: tier population shares sum to %v, want 1.0", population)
	}

	if len(c.ApprovalBands) == 0 {
		return fmt.Errorf("catalog: no approval bands configured")
	}
	prevScore := math.MaxInt
	for _, band := range c.ApprovalBands {
		if band.MinScore >= prevScore {
			return fmt.Errorf("catalog: approval bands must be in strictly descending MinScore order")
		}
		if band.Probability < 0 || band.Probability > 1 {
			return fmt.Errorf("catalog: approval probability %v outside [0,1]", band.Probability)
		}
		prevScore = band.MinScore
	}
	if c.ApprovalBands[len(c.ApprovalBands)-1].MinScore != 0 {
		return fmt.Errorf("catalog: last approval band must have MinScore 0")
	}

	for _, cat := range valueobject.AllRiskCategories() {
		r, ok := c.DefaultRates[cat]
		if !ok {
			return fmt.Errorf("catalog: missing default rate for category %s", cat)
		}
		if r < 0 || r > 1 {
			return fmt.Errorf("catalog: default rate %v for category %s outside [0,1]", r, cat)
		}
	}

	if len(c.Buckets) == 0 {
		return fmt.Errorf("catalog: no bucket policies configured")
	}
	prevDPD := -1
	for i, b := range c.Buckets {
		last := i == len(c.Buckets)-1
		if last {
			if b.MaxDPD >= 0 {
				return fmt.Errorf("catalog: terminal bucket %s must be open-ended", b.Bucket)
			}
		} else {
			if b.MaxDPD <= prevDPD {
				return fmt.Errorf("catalog: bucket DPD ceilings must be strictly increasing")
			}
			prevDPD = b.MaxDPD
		}
		if b.RecoveryMinPct < 0 || b.RecoveryMaxPct > 100 || b.RecoveryMinPct >= b.RecoveryMaxPct {
			return fmt.Errorf("catalog: bucket %s recovery range [%v,%v) is invalid", b.Bucket, b.RecoveryMinPct, b.RecoveryMaxPct)
		}
	}

	if c.Seasonal.Probability < 0 || c.Seasonal.Probability > 1 {
		return fmt.Errorf("catalog: seasonal probability %v outside [0,1]", c.Seasonal.Probability)
	}
	if c.Seasonal.MinExtraDays > c.Seasonal.MaxExtraDays {
		return fmt.Errorf("catalog: seasonal delay range [%d,%d] is inverted", c.Seasonal.MinExtraDays, c.Seasonal.MaxExtraDays)
	}
	if c.LateFailureProbability < 0 || c.LateFailureProbability > 1 {
		return fmt.Errorf("catalog: late failure probability %v outside [0,1]", c.LateFailureProbability)
	}
	if c.PartialProbability < 0 || c.PartialProbability > 1 {
		return fmt.Errorf("catalog: partial payment probability %v outside [0,1]", c.PartialProbability)
	}
	if c.PartialMinFraction <= 0 || c.PartialMaxFraction > 1 || c.PartialMinFraction >= c.PartialMaxFraction {
		return fmt.Errorf("catalog: partial payment fraction range [%v,%v) is invalid", c.PartialMinFraction, c.PartialMaxFraction)
	}
	if c.SanctionIncomeMultiple <= 0 {
		return fmt.Errorf("catalog: sanction income multiple must be positive")
	}
	if c.MinDisbursementLagDays < 0 || c.MinDisbursementLagDays >= c.MaxDisbursementLagDays {
		return fmt.Errorf("catalog: disbursement lag range [%d,%d) is invalid", c.MinDisbursementLagDays, c.MaxDisbursementLagDays)
	}
	if c.ResidualThreshold.IsNegative() {
		return fmt.Errorf("catalog: residual threshold must not be negative")
	}
	if c.PenaltyPerDay.IsNegative() || c.PenaltyCap.IsNegative() {
		return fmt.Errorf("catalog: penalty amounts must not be negative")
	}
	if c.IterationCap < 1 {
		return fmt.Errorf("catalog: iteration cap must be at least 1")
	}
	return nil
}
