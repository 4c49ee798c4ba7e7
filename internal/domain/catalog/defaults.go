package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/internal/domain/valueobject"
)

// Default returns the catalog calibrated against the EduFin education-loan
// book. Every parameter can be overridden by the simulation parameter file.
func Default() Catalog {
	return Catalog{
		Tiers: map[valueobject.RiskTier]TierProfile{
			valueobject.RiskTierExcellent: {Population: 0.20, OnTimeProbability: 0.95, MaxDelayDays: 7},
			valueobject.RiskTierGood:      {Population: 0.45, OnTimeProbability: 0.85, MaxDelayDays: 15},
			valueobject.RiskTierFair:      {Population: 0.25, OnTimeProbability: 0.70, MaxDelayDays: 30},
			valueobject.RiskTierPoor:      {Population: 0.10, OnTimeProbability: 0.50, MaxDelayDays: 60},
		},
		ApprovalBands: []ApprovalBand{
			{MinScore: 750, Probability: 0.95},
			{MinScore: 650, Probability: 0.80},
			{MinScore: 550, Probability: 0.60},
			{MinScore: 0, Probability: 0.30},
		},
		DefaultRates: map[valueobject.RiskCategory]float64{
			valueobject.RiskCategoryLow:      0.03,
			valueobject.RiskCategoryMedium:   0.08,
			valueobject.RiskCategoryHigh:     0.18,
			valueobject.RiskCategoryCritical: 0.35,
		},
		Buckets: []BucketPolicy{
			{MaxDPD: 30, Bucket: valueobject.Bucket0To30DPD, Stage: valueobject.StageEarlyCollection, RecoveryMinPct: 70, RecoveryMaxPct: 100},
			{MaxDPD: 60, Bucket: valueobject.Bucket31To60DPD, Stage: valueobject.StagePrimaryCollection, RecoveryMinPct: 40, RecoveryMaxPct: 80},
			{MaxDPD: 90, Bucket: valueobject.Bucket61To90DPD, Stage: valueobject.StagePrimaryCollection, RecoveryMinPct: 20, RecoveryMaxPct: 50},
			{MaxDPD: 180, Bucket: valueobject.Bucket91To180DPD, Stage: valueobject.StageSecondaryCollection, RecoveryMinPct: 10, RecoveryMaxPct: 30},
			{MaxDPD: -1, Bucket: valueobject.Bucket180PlusDPD, Stage: valueobject.StageLegalAction, RecoveryMinPct: 0, RecoveryMaxPct: 15},
		},
		Economy: map[int]YearMultipliers{
			2019: {DefaultRate: 1.0, Disbursement: 1.0, AvgIncome: 1.0},
			2020: {DefaultRate: 1.8, Disbursement: 0.6, AvgIncome: 0.90},
			2021: {DefaultRate: 1.5, Disbursement: 0.8, AvgIncome: 0.95},
			2022: {DefaultRate: 1.2, Disbursement: 1.1, AvgIncome: 1.05},
			2023: {DefaultRate: 1.0, Disbursement: 1.3, AvgIncome: 1.08},
			2024: {DefaultRate: 0.9, Disbursement: 1.4, AvgIncome: 1.12},
		},
		Seasonal: SeasonalStress{
			Months:       []time.Month{time.March, time.April},
			Probability:  0.30,
			MinExtraDays: 3,
			MaxExtraDays: 10,
		},
		MacroShockYears: []int{2020, 2021},
		FallbackReasons: []valueobject.DefaultReason{
			valueobject.ReasonFamilyIssues,
			valueobject.ReasonMedicalEmergency,
			valueobject.ReasonBusinessFailure,
			valueobject.ReasonOther,
		},

		SanctionIncomeMultiple:  2.5,
		ShortCourseCutoffMonths: 24,
		ShortTermBufferMonths:   24,
		LongTermBufferMonths:    36,
		MinDisbursementLagDays:  15,
		MaxDisbursementLagDays:  60,

		ResidualThreshold:        decimal.NewFromInt(100),
		LateFailureThresholdDays: 30,
		LateFailureProbability:   0.30,
		PartialThresholdDays:     15,
		PartialProbability:       0.20,
		PartialMinFraction:       0.5,
		PartialMaxFraction:       0.9,
		PenaltyPerDay:            decimal.NewFromInt(100),
		PenaltyCap:               decimal.Zero,
		IterationCap:             720,
	}
}
