package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/internal/domain/catalog"
	"github.com/edufin/loansim/internal/domain/model"
)

// Underwriter turns pending applications into sanctioned or rejected loans.
//
// The approval draw is probabilistic: the applicant's credit score selects an
// approval band and a single uniform draw decides the outcome. Approved loans
// are sanctioned at min(requested, income * SanctionIncomeMultiple), with the
// repayment term padded beyond the course duration and disbursement lagging
// the application date by a uniform number of days.
type Underwriter struct {
	cat catalog.Catalog
}

func NewUnderwriter(cat catalog.Catalog) *Underwriter {
	return &Underwriter{cat: cat}
}

func (u *Underwriter) Decide(pending model.PendingApplication, rng Rand, now time.Time) (model.Loan, error) {
	if err := pending.Validate(); err != nil {
		return model.Loan{}, fmt.Errorf("underwrite application %s: %w", pending.Application.ID, err)
	}
	app := pending.Application
	profile := pending.Profile

	if rng.Float64() >= u.cat.ApprovalProbability(profile.CreditScore) {
		return model.NewRejectedLoan(app, profile, now), nil
	}

	sanctioned := u.sanctionAmount(app.RequestedAmount, profile.AnnualIncome)
	term := u.repaymentTerm(app.CourseDurationMonths)
	installment := model.MonthlyInstallment(sanctioned, app.AnnualRatePct, term)

	// The lag is drawn from the half-open range [min, max) days.
	lag := u.cat.MinDisbursementLagDays
	if spread := u.cat.MaxDisbursementLagDays - u.cat.MinDisbursementLagDays; spread > 0 {
		lag += rng.IntN(spread)
	}
	disbursedAt := app.AppliedAt.AddDate(0, 0, lag)

	loan, err := model.NewSanctionedLoan(app, profile, sanctioned, term, installment, disbursedAt, now)
	if err != nil {
		return model.Loan{}, fmt.Errorf("underwrite application %s: %w", app.ID, err)
	}
	return loan, nil
}

// sanctionAmount caps the principal at a multiple of the applicant's annual
// income.
func (u *Underwriter) sanctionAmount(requested, income decimal.Decimal) decimal.Decimal {
	limit := income.Mul(decimal.NewFromFloat(u.cat.SanctionIncomeMultiple))
	if requested.LessThanOrEqual(limit) {
		return requested
	}
	return limit.Round(2)
}

// repaymentTerm pads the course duration with a moratorium buffer, longer for
// longer courses.
func (u *Underwriter) repaymentTerm(courseMonths int) int {
	if courseMonths <= u.cat.ShortCourseCutoffMonths {
		return courseMonths + u.cat.ShortTermBufferMonths
	}
	return courseMonths + u.cat.LongTermBufferMonths
}
