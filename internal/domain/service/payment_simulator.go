package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/internal/domain/catalog"
	"github.com/edufin/loansim/internal/domain/model"
	"github.com/edufin/loansim/internal/domain/valueobject"
)

// PaymentOutcome is the result of replaying a loan's repayment history up to
// the simulation horizon.
type PaymentOutcome struct {
	Loan   model.Loan
	Ledger []model.PaymentEvent

	// Flagged marks the loan for default resolution. The loan is left ACTIVE
	// so the resolver can inspect the ledger before the terminal transition.
	Flagged bool

	Warnings []string
}

// PaymentSimulator replays a sanctioned loan month by month from disbursement
// to the horizon date.
//
// Behaviour is driven by the borrower's tier profile: each month a single
// draw decides on-time payment, late payments accrue per-day penalties, a
// delay past the failure threshold risks a missed installment and a delay
// past the partial threshold risks a reduced one. Loans flagged for default
// stop paying after a truncated number of installments.
type PaymentSimulator struct {
	cat catalog.Catalog
}

func NewPaymentSimulator(cat catalog.Catalog) *PaymentSimulator {
	return &PaymentSimulator{cat: cat}
}

func (s *PaymentSimulator) Run(loan model.Loan, rng Rand, asOf time.Time) (PaymentOutcome, error) {
	if !loan.Status().Equal(valueobject.LoanStatusSanctioned) {
		return PaymentOutcome{}, fmt.Errorf("simulate loan %s: %w", loan.ID(), valueobject.ErrInvalidStatusTransition)
	}
	disbursedAt := loan.DisbursedAt()
	if disbursedAt == nil {
		return PaymentOutcome{}, fmt.Errorf("simulate loan %s: %w", loan.ID(), valueobject.ErrMissingDisbursement)
	}
	if loan.Installment().LessThanOrEqual(decimal.Zero) {
		return PaymentOutcome{}, fmt.Errorf("simulate loan %s: %w", loan.ID(), valueobject.ErrInconsistentLedger)
	}
	profile, err := s.cat.TierProfileFor(loan.Tier())
	if err != nil {
		return PaymentOutcome{}, fmt.Errorf("simulate loan %s: %w", loan.ID(), err)
	}

	elapsed := monthsBetween(*disbursedAt, asOf)
	expected := elapsed
	if expected > loan.TermMonths() {
		expected = loan.TermMonths()
	}
	if expected <= 0 {
		// Horizon precedes the first due date, nothing to replay yet.
		return PaymentOutcome{Loan: loan}, nil
	}

	flagged, err := s.drawDefaultFlag(loan, rng, disbursedAt.Year())
	if err != nil {
		return PaymentOutcome{}, fmt.Errorf("simulate loan %s: %w", loan.ID(), err)
	}

	var warnings []string
	months := expected
	if flagged {
		// A defaulting borrower services only part of the expected schedule.
		half := expected / 2
		if half < 1 {
			half = 1
		}
		months = uniformInt(rng, 1, half)
	}
	if months > s.cat.IterationCap {
		months = s.cat.IterationCap
		warnings = append(warnings, fmt.Sprintf("%s: schedule truncated at %d months",
			valueobject.ErrIterationCapExceeded, s.cat.IterationCap))
	}

	loan, err = loan.Activate(asOf)
	if err != nil {
		return PaymentOutcome{}, fmt.Errorf("simulate loan %s: %w", loan.ID(), err)
	}

	monthlyRate := decimal.NewFromFloat(loan.AnnualRatePct() / 100 / 12)
	outstanding := loan.Outstanding()
	ledger := make([]model.PaymentEvent, 0, months)
	successes := 0

	for m := 1; m <= months; m++ {
		dueDate := disbursedAt.AddDate(0, 0, 30*m)

		daysLate := 0
		if rng.Float64() >= profile.OnTimeProbability {
			daysLate = uniformInt(rng, 1, profile.MaxDelayDays)
		}

		failed := false
		if daysLate > s.cat.LateFailureThresholdDays {
			failed = rng.Float64() < s.cat.LateFailureProbability
		}

		amount := loan.Installment()
		if !failed && daysLate > s.cat.PartialThresholdDays {
			if rng.Float64() < s.cat.PartialProbability {
				fraction := uniformFloat(rng, s.cat.PartialMinFraction, s.cat.PartialMaxFraction)
				amount = amount.Mul(decimal.NewFromFloat(fraction))
			}
		}

		// Exam-season stress adds delay on top of whatever already happened.
		if s.cat.IsSeasonalMonth(dueDate.Month()) && rng.Float64() < s.cat.Seasonal.Probability {
			daysLate += uniformInt(rng, s.cat.Seasonal.MinExtraDays, s.cat.Seasonal.MaxExtraDays)
		}

		penalty := s.penaltyFor(daysLate)
		paidAt := dueDate.AddDate(0, 0, daysLate)

		var pe model.PaymentEvent
		if failed {
			pe, err = model.NewFailedPayment(loan.ID(), m, dueDate, paidAt, penalty, daysLate, outstanding)
		} else {
			interest := outstanding.Mul(monthlyRate)
			principal := amount.Sub(interest)
			if principal.IsNegative() {
				// A payment smaller than the interest due services interest
				// only. The balance never grows from a partial payment.
				principal = decimal.Zero
			}
			if principal.GreaterThan(outstanding) {
				principal = outstanding
				amount = outstanding.Add(interest)
			}
			outstanding = outstanding.Sub(principal)
			successes++
			pe, err = model.NewSuccessfulPayment(loan.ID(), m, dueDate, paidAt, amount, interest, penalty, daysLate, outstanding)
		}
		if err != nil {
			return PaymentOutcome{}, fmt.Errorf("simulate loan %s month %d: %w", loan.ID(), m, err)
		}
		ledger = append(ledger, pe)

		loan, err = loan.UpdateOutstanding(outstanding, asOf)
		if err != nil {
			return PaymentOutcome{}, fmt.Errorf("simulate loan %s month %d: %w", loan.ID(), m, err)
		}

		// Payoff ends the schedule for defaulting borrowers too: once the
		// balance is gone there is nothing left to service.
		if outstanding.LessThanOrEqual(s.cat.ResidualThreshold) {
			break
		}
	}

	if !flagged {
		switch {
		case outstanding.LessThanOrEqual(s.cat.ResidualThreshold):
			loan, err = loan.Close(successes, asOf)
		case elapsed >= loan.TermMonths():
			warnings = append(warnings, "residual balance carried past scheduled term")
			loan, err = loan.Close(successes, asOf)
		}
		if err != nil {
			return PaymentOutcome{}, fmt.Errorf("simulate loan %s: %w", loan.ID(), err)
		}
	}

	return PaymentOutcome{Loan: loan, Ledger: ledger, Flagged: flagged, Warnings: warnings}, nil
}

// drawDefaultFlag decides upfront whether this loan will end in default. The
// base rate for the borrower's risk category is scaled by the macro
// multiplier of the disbursement year.
func (s *PaymentSimulator) drawDefaultFlag(loan model.Loan, rng Rand, year int) (bool, error) {
	rate, err := s.cat.DefaultRateFor(loan.RiskCategory())
	if err != nil {
		return false, err
	}
	rate *= s.cat.DefaultRateMultiplier(year)
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return rng.Float64() < rate, nil
}

func (s *PaymentSimulator) penaltyFor(daysLate int) decimal.Decimal {
	if daysLate <= 0 {
		return decimal.Zero
	}
	penalty := s.cat.PenaltyPerDay.Mul(decimal.NewFromInt(int64(daysLate)))
	if s.cat.PenaltyCap.IsPositive() && penalty.GreaterThan(s.cat.PenaltyCap) {
		return s.cat.PenaltyCap
	}
	return penalty
}

// monthsBetween counts whole 30-day periods from a to b, negative when b
// precedes a.
func monthsBetween(a, b time.Time) int {
	days := int(b.Sub(a).Hours() / 24)
	return days / 30
}
