package service_test

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edufin/loansim/internal/domain/catalog"
	"github.com/edufin/loansim/internal/domain/model"
	"github.com/edufin/loansim/internal/domain/service"
	"github.com/edufin/loansim/internal/domain/valueobject"
)

func TestPaymentSimulatorRun(t *testing.T) {
	sim := service.NewPaymentSimulator(catalog.Default())

	t.Run("horizon before first due date leaves the loan sanctioned", func(t *testing.T) {
		disb := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		loan := makeLoan(t, valueobject.RiskTierExcellent,
			decimal.NewFromInt(100000), 12, 36, decimal.NewFromFloat(3321.43), disb)

		out, err := sim.Run(loan, &scriptedRand{t: t}, disb.AddDate(0, 0, 10))
		require.NoError(t, err)

		assert.Equal(t, valueobject.LoanStatusSanctioned, out.Loan.Status())
		assert.Empty(t, out.Ledger)
		assert.False(t, out.Flagged)
	})

	t.Run("on-time payer stays current", func(t *testing.T) {
		disb := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		loan := makeLoan(t, valueobject.RiskTierExcellent,
			decimal.NewFromInt(100000), 12, 36, decimal.NewFromFloat(3321.43), disb)
		rng := &scriptedRand{t: t, floats: []float64{0.99, 0.0, 0.0}}

		out, err := sim.Run(loan, rng, disb.AddDate(0, 0, 75))
		require.NoError(t, err)

		require.Len(t, out.Ledger, 2)
		for _, pe := range out.Ledger {
			assert.Equal(t, valueobject.PaymentStatusSuccessful, pe.Status)
			assert.Zero(t, pe.DaysLate)
			assert.True(t, pe.Penalty.IsZero())
			assert.True(t, pe.Amount.Equal(decimal.NewFromFloat(3321.43)))
		}
		assert.True(t, out.Ledger[1].OutstandingAfter.LessThan(out.Ledger[0].OutstandingAfter))
		assert.True(t, out.Ledger[0].DueDate.Equal(disb.AddDate(0, 0, 30)))
		assert.Equal(t, valueobject.LoanStatusActive, out.Loan.Status())
		assert.False(t, out.Flagged)
	})

	t.Run("long delay can shrink the payment", func(t *testing.T) {
		disb := time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)
		loan := makeLoan(t, valueobject.RiskTierFair,
			decimal.NewFromInt(100000), 12, 36, decimal.NewFromFloat(3321.43), disb)
		// flag miss, late draw, partial hit, fraction midpoint low.
		rng := &scriptedRand{t: t, floats: []float64{0.99, 0.75, 0.10, 0.5}, ints: []int{19}}

		out, err := sim.Run(loan, rng, disb.AddDate(0, 0, 37))
		require.NoError(t, err)

		require.Len(t, out.Ledger, 1)
		pe := out.Ledger[0]
		assert.Equal(t, valueobject.PaymentStatusSuccessful, pe.Status)
		assert.Equal(t, 20, pe.DaysLate)
		assert.True(t, decimal.NewFromInt(2000).Equal(pe.Penalty), pe.Penalty.String())
		// 0.7 of the scheduled installment.
		assert.InDelta(t, 2325.00, pe.Amount.InexactFloat64(), 0.01)
		assert.InDelta(t, 1000.00, pe.Interest.InexactFloat64(), 0.01)
		assert.True(t, pe.PaidAt.Equal(pe.DueDate.AddDate(0, 0, 20)))
	})

	t.Run("very late installment can fail outright", func(t *testing.T) {
		disb := time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)
		loan := makeLoan(t, valueobject.RiskTierPoor,
			decimal.NewFromInt(100000), 12, 36, decimal.NewFromFloat(3321.43), disb)
		rng := &scriptedRand{t: t, floats: []float64{0.99, 0.60, 0.10}, ints: []int{44}}

		out, err := sim.Run(loan, rng, disb.AddDate(0, 0, 37))
		require.NoError(t, err)

		require.Len(t, out.Ledger, 1)
		pe := out.Ledger[0]
		assert.Equal(t, valueobject.PaymentStatusFailed, pe.Status)
		assert.Equal(t, 45, pe.DaysLate)
		assert.True(t, pe.Amount.IsZero())
		assert.True(t, decimal.NewFromInt(4500).Equal(pe.Penalty))
		assert.True(t, decimal.NewFromInt(100000).Equal(pe.OutstandingAfter))
		assert.True(t, decimal.NewFromInt(100000).Equal(out.Loan.Outstanding()))
	})

	t.Run("flagged loan services a truncated schedule", func(t *testing.T) {
		disb := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
		loan := makeLoan(t, valueobject.RiskTierPoor,
			decimal.NewFromInt(100000), 12, 36, decimal.NewFromFloat(3321.43), disb)
		// 2020 multiplies the critical rate to 0.63, so 0.5 flags the loan.
		rng := &scriptedRand{t: t, floats: []float64{0.5, 0.0, 0.0, 0.0}, ints: []int{2}}

		out, err := sim.Run(loan, rng, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, out.Flagged)
		assert.Len(t, out.Ledger, 3)
		assert.Equal(t, valueobject.LoanStatusActive, out.Loan.Status(),
			"terminal transition is the resolver's call")
	})

	t.Run("flagged loan stops at payoff inside its truncated window", func(t *testing.T) {
		disb := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
		loan := makeLoan(t, valueobject.RiskTierPoor,
			decimal.NewFromInt(250), 0, 6, decimal.NewFromInt(100), disb)
		// Flag hits, budget draw grants 3 months, but the balance reaches the
		// residual threshold after 2.
		rng := &scriptedRand{t: t, floats: []float64{0.5, 0.0, 0.0}, ints: []int{2}}

		out, err := sim.Run(loan, rng, time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, out.Flagged)
		require.Len(t, out.Ledger, 2)
		assert.True(t, decimal.NewFromInt(50).Equal(out.Ledger[1].OutstandingAfter))
		assert.Equal(t, valueobject.LoanStatusActive, out.Loan.Status())
	})

	t.Run("iteration cap truncates the schedule with a warning", func(t *testing.T) {
		cat := catalog.Default()
		cat.IterationCap = 2
		sim := service.NewPaymentSimulator(cat)

		disb := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		loan := makeLoan(t, valueobject.RiskTierExcellent,
			decimal.NewFromInt(300000), 12, 36, decimal.NewFromFloat(9964.29), disb)
		rng := &scriptedRand{t: t, floats: []float64{0.99, 0.0, 0.0}}

		out, err := sim.Run(loan, rng, disb.AddDate(0, 0, 310))
		require.NoError(t, err)

		require.Len(t, out.Ledger, 2)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], valueobject.ErrIterationCapExceeded.Error())
		assert.Equal(t, valueobject.LoanStatusActive, out.Loan.Status())
	})

	t.Run("final payment is clamped to the balance", func(t *testing.T) {
		cat := catalog.Default()
		cat.ResidualThreshold = decimal.Zero
		sim := service.NewPaymentSimulator(cat)

		disb := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		loan := makeLoan(t, valueobject.RiskTierExcellent,
			decimal.NewFromInt(250), 0, 3, decimal.NewFromInt(100), disb)
		rng := &scriptedRand{t: t, floats: []float64{0.99, 0.0, 0.0, 0.0}}

		out, err := sim.Run(loan, rng, disb.AddDate(0, 0, 100))
		require.NoError(t, err)

		require.Len(t, out.Ledger, 3)
		last := out.Ledger[2]
		assert.True(t, decimal.NewFromInt(50).Equal(last.Amount), last.Amount.String())
		assert.True(t, last.OutstandingAfter.IsZero())
		assert.Equal(t, valueobject.LoanStatusClosed, out.Loan.Status())
	})

	t.Run("term exhaustion closes with residual carried", func(t *testing.T) {
		disb := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		loan := makeLoan(t, valueobject.RiskTierExcellent,
			decimal.NewFromInt(100000), 0, 2, decimal.NewFromInt(100), disb)
		rng := &scriptedRand{t: t, floats: []float64{0.99, 0.0, 0.0}}

		out, err := sim.Run(loan, rng, disb.AddDate(0, 0, 70))
		require.NoError(t, err)

		assert.Equal(t, valueobject.LoanStatusClosed, out.Loan.Status())
		assert.True(t, decimal.NewFromInt(99800).Equal(out.Loan.Outstanding()))
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "residual")
	})

	t.Run("rejected or already decided loans are refused", func(t *testing.T) {
		disb := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		loan := makeLoan(t, valueobject.RiskTierExcellent,
			decimal.NewFromInt(100000), 12, 36, decimal.NewFromFloat(3321.43), disb)
		active, err := loan.Activate(disb)
		require.NoError(t, err)

		_, err = sim.Run(active, &scriptedRand{t: t}, disb.AddDate(0, 0, 75))
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})
}

func TestPaymentSimulatorProperties(t *testing.T) {
	sim := service.NewPaymentSimulator(catalog.Default())
	tiers := valueobject.AllRiskTiers()
	disb := time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 150; i++ {
		t.Run(fmt.Sprintf("loan %d", i), func(t *testing.T) {
			principal := decimal.NewFromInt(int64(200000 + i*1000))
			loan := makeLoan(t, tiers[i%len(tiers)], principal, 10, 60,
				model.MonthlyInstallment(principal, 10, 60), disb)
			rng := rand.New(rand.NewPCG(99, uint64(i)))

			out, err := sim.Run(loan, rng, asOf)
			require.NoError(t, err)

			assert.LessOrEqual(t, len(out.Ledger), 60)
			prev := principal
			for _, pe := range out.Ledger {
				assert.False(t, pe.OutstandingAfter.GreaterThan(prev),
					"outstanding must never increase")
				prev = pe.OutstandingAfter
				if pe.Status.Equal(valueobject.PaymentStatusFailed) {
					assert.True(t, pe.Amount.IsZero())
					assert.True(t, pe.Principal.IsZero())
					assert.True(t, pe.Interest.IsZero())
				}
				assert.GreaterOrEqual(t, pe.DaysLate, 0)
				assert.False(t, pe.Penalty.IsNegative())
			}

			if out.Flagged {
				assert.Equal(t, valueobject.LoanStatusActive, out.Loan.Status())
				assert.NotEmpty(t, out.Ledger)
			} else {
				assert.Contains(t,
					[]valueobject.LoanStatus{valueobject.LoanStatusActive, valueobject.LoanStatusClosed},
					out.Loan.Status())
			}
		})
	}
}
