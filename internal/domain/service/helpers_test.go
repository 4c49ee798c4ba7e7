package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/edufin/loansim/internal/domain/model"
	"github.com/edufin/loansim/internal/domain/valueobject"
)

// scriptedRand replays fixed draw sequences so tests can pin down a single
// branch of the month loop.
type scriptedRand struct {
	t      *testing.T
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRand) Float64() float64 {
	require.Less(r.t, r.fi, len(r.floats), "float draws exhausted")
	v := r.floats[r.fi]
	r.fi++
	return v
}

func (r *scriptedRand) IntN(n int) int {
	require.Less(r.t, r.ii, len(r.ints), "int draws exhausted")
	v := r.ints[r.ii]
	r.ii++
	require.Less(r.t, v, n, "scripted draw out of range")
	return v
}

func makeLoan(
	t *testing.T,
	tier valueobject.RiskTier,
	sanctioned decimal.Decimal,
	ratePct float64,
	termMonths int,
	installment decimal.Decimal,
	disbursedAt time.Time,
) model.Loan {
	t.Helper()
	app := model.LoanApplication{
		ID:                   "app-001",
		CustomerID:           "cust-001",
		RequestedAmount:      sanctioned,
		AnnualRatePct:        ratePct,
		AppliedAt:            disbursedAt.AddDate(0, 0, -30),
		CourseDurationMonths: 24,
	}
	profile := model.CustomerCreditProfile{
		CustomerID:   "cust-001",
		CreditScore:  700,
		AnnualIncome: sanctioned,
		Tier:         tier,
	}
	loan, err := model.NewSanctionedLoan(app, profile, sanctioned, termMonths, installment, disbursedAt, disbursedAt)
	require.NoError(t, err)
	return loan
}
