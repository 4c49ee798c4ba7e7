package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// MonthlyInstallment computes the fixed monthly payment (EMI) for a loan.
//
// Parameters:
//   - principal:     the sanctioned loan amount
//   - annualRatePct: nominal annual rate in percent (e.g. 12.0 = 12%)
//   - termMonths:    number of monthly periods
//
// The calculation uses:
//
//	monthlyRate = annualRatePct / 100 / 12
//	installment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate degenerates to an even split P/n. Non-positive principal or
// term, or a negative rate, yields zero.
func MonthlyInstallment(principal decimal.Decimal, annualRatePct float64, termMonths int) decimal.Decimal {
	if termMonths <= 0 || annualRatePct < 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	monthlyRate := annualRatePct / 100.0 / 12.0
	if monthlyRate == 0 {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	}

	// The power term is computed in float64, then the result is snapped back
	// to decimal for monetary use.
	factor := math.Pow(1+monthlyRate, float64(termMonths))
	installment := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	return decimal.NewFromFloat(installment).Round(2)
}
