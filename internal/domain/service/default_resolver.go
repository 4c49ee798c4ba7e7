package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/internal/domain/catalog"
	"github.com/edufin/loansim/internal/domain/model"
	"github.com/edufin/loansim/internal/domain/valueobject"
)

// DefaultResolver produces the collections record for a loan flagged as
// defaulting: the default date, days past due, delinquency bucket with its
// collection stage, an attributed reason and a recovery outcome drawn from
// the bucket's range.
type DefaultResolver struct {
	cat catalog.Catalog
}

func NewDefaultResolver(cat catalog.Catalog) *DefaultResolver {
	return &DefaultResolver{cat: cat}
}

func (r *DefaultResolver) Resolve(loan model.Loan, ledger []model.PaymentEvent, rng Rand, asOf time.Time) (model.DefaultRecord, error) {
	if !loan.Status().Equal(valueobject.LoanStatusActive) {
		return model.DefaultRecord{}, fmt.Errorf("resolve default for loan %s: %w", loan.ID(), valueobject.ErrInvalidStatusTransition)
	}
	disbursedAt := loan.DisbursedAt()
	if disbursedAt == nil {
		return model.DefaultRecord{}, fmt.Errorf("resolve default for loan %s: %w", loan.ID(), valueobject.ErrMissingDisbursement)
	}

	defaultedAt := r.defaultDate(*disbursedAt, ledger)

	var warnings []string
	dpd := int(asOf.Sub(defaultedAt).Hours() / 24)
	if dpd < 0 {
		warnings = append(warnings, "default date past the simulation horizon, days past due clamped to zero")
		dpd = 0
	}

	policy := r.cat.BucketFor(dpd)
	pct := uniformFloat(rng, policy.RecoveryMinPct, policy.RecoveryMaxPct)

	record, err := model.NewDefaultRecord(
		loan.ID(),
		defaultedAt,
		dpd,
		policy.Bucket,
		policy.Stage,
		r.attributeReason(loan, defaultedAt, rng),
		r.exposure(loan, ledger),
		pct,
		warnings,
	)
	if err != nil {
		return model.DefaultRecord{}, fmt.Errorf("resolve default for loan %s: %w", loan.ID(), err)
	}
	return record, nil
}

// defaultDate is 60 days after the last collected installment, or 90 days
// after disbursement when nothing was ever collected.
func (r *DefaultResolver) defaultDate(disbursedAt time.Time, ledger []model.PaymentEvent) time.Time {
	for i := len(ledger) - 1; i >= 0; i-- {
		if ledger[i].Status.Equal(valueobject.PaymentStatusSuccessful) {
			return ledger[i].PaidAt.AddDate(0, 0, 60)
		}
	}
	return disbursedAt.AddDate(0, 0, 90)
}

// exposure is the sanctioned principal net of everything collected, floored
// at zero.
func (r *DefaultResolver) exposure(loan model.Loan, ledger []model.PaymentEvent) decimal.Decimal {
	paid := decimal.Zero
	for _, pe := range ledger {
		if pe.Status.Equal(valueobject.PaymentStatusSuccessful) {
			paid = paid.Add(pe.Amount)
		}
	}
	exposure := loan.SanctionedAmount().Sub(paid)
	if exposure.IsNegative() {
		return decimal.Zero
	}
	return exposure
}

// attributeReason picks the default reason by precedence: macro shock year,
// then poor credit tier, then exam-season timing, then a uniform fallback.
func (r *DefaultResolver) attributeReason(loan model.Loan, defaultedAt time.Time, rng Rand) valueobject.DefaultReason {
	switch {
	case r.cat.IsMacroShockYear(defaultedAt.Year()):
		return valueobject.ReasonJobLoss
	case loan.Tier().Equal(valueobject.RiskTierPoor):
		return valueobject.ReasonIncomeReduction
	case r.cat.IsSeasonalMonth(defaultedAt.Month()):
		return valueobject.ReasonCourseDropout
	default:
		return r.cat.FallbackReasons[rng.IntN(len(r.cat.FallbackReasons))]
	}
}
