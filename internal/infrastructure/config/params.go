package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/edufin/loansim/internal/domain/catalog"
	"github.com/edufin/loansim/internal/domain/valueobject"
)

// tierParams overrides one risk tier's behaviour profile.
type tierParams struct {
	Population        float64 `yaml:"population" validate:"gte=0,lte=1"`
	OnTimeProbability float64 `yaml:"on_time_probability" validate:"gte=0,lte=1"`
	MaxDelayDays      int     `yaml:"max_delay_days" validate:"gt=0"`
}

// fileParams is the YAML schema of the optional parameter override file.
// Absent fields keep the built-in calibration.
type fileParams struct {
	Tiers        map[string]tierParams `yaml:"tiers" validate:"omitempty,dive"`
	DefaultRates map[string]float64    `yaml:"default_rates" validate:"omitempty,dive,gte=0,lte=1"`

	SanctionIncomeMultiple *float64 `yaml:"sanction_income_multiple" validate:"omitempty,gt=0"`
	PenaltyPerDay          *float64 `yaml:"penalty_per_day" validate:"omitempty,gte=0"`
	PenaltyCap             *float64 `yaml:"penalty_cap" validate:"omitempty,gte=0"`
	ResidualThreshold      *float64 `yaml:"residual_threshold" validate:"omitempty,gte=0"`
	IterationCap           *int     `yaml:"iteration_cap" validate:"omitempty,gt=0"`
	MinDisbursementLagDays *int     `yaml:"min_disbursement_lag_days" validate:"omitempty,gte=0"`
	MaxDisbursementLagDays *int     `yaml:"max_disbursement_lag_days" validate:"omitempty,gte=0"`
}

// LoadCatalog returns the built-in parameter catalog, with overrides from the
// YAML file at path applied on top. An empty path means no overrides.
func LoadCatalog(path string) (catalog.Catalog, error) {
	cat := catalog.Default()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("read params file: %w", err)
	}
	var fp fileParams
	if err := yaml.Unmarshal(data, &fp); err != nil {
		return catalog.Catalog{}, fmt.Errorf("parse params file %s: %w", path, err)
	}
	if err := validator.New().Struct(fp); err != nil {
		return catalog.Catalog{}, fmt.Errorf("validate params file %s: %w", path, err)
	}
	if err := applyParams(&cat, fp); err != nil {
		return catalog.Catalog{}, fmt.Errorf("apply params file %s: %w", path, err)
	}
	return cat, nil
}

func applyParams(cat *catalog.Catalog, fp fileParams) error {
	for name, tp := range fp.Tiers {
		tier, err := valueobject.NewRiskTier(name)
		if err != nil {
			return err
		}
		cat.Tiers[tier] = catalog.TierProfile{
			Population:        tp.Population,
			OnTimeProbability: tp.OnTimeProbability,
			MaxDelayDays:      tp.MaxDelayDays,
		}
	}
	for name, rate := range fp.DefaultRates {
		category, err := valueobject.NewRiskCategory(name)
		if err != nil {
			return err
		}
		cat.DefaultRates[category] = rate
	}

	if fp.SanctionIncomeMultiple != nil {
		cat.SanctionIncomeMultiple = *fp.SanctionIncomeMultiple
	}
	if fp.PenaltyPerDay != nil {
		cat.PenaltyPerDay = decimal.NewFromFloat(*fp.PenaltyPerDay)
	}
	if fp.PenaltyCap != nil {
		cat.PenaltyCap = decimal.NewFromFloat(*fp.PenaltyCap)
	}
	if fp.ResidualThreshold != nil {
		cat.ResidualThreshold = decimal.NewFromFloat(*fp.ResidualThreshold)
	}
	if fp.IterationCap != nil {
		cat.IterationCap = *fp.IterationCap
	}
	if fp.MinDisbursementLagDays != nil {
		cat.MinDisbursementLagDays = *fp.MinDisbursementLagDays
	}
	if fp.MaxDisbursementLagDays != nil {
		cat.MaxDisbursementLagDays = *fp.MaxDisbursementLagDays
	}
	return nil
}
