package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/internal/domain/valueobject"
)

// PaymentEvent is one row of a loan's payment ledger. Monetary fields are
// rounded to 2 decimal places and satisfy principal + interest <= amount.
type PaymentEvent struct {
	ID               string
	LoanID           string
	Sequence         int
	DueDate          time.Time
	PaidAt           time.Time
	Amount           decimal.Decimal
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Penalty          decimal.Decimal
	DaysLate         int
	Status           valueobject.PaymentStatus
	OutstandingAfter decimal.Decimal
}

// NewSuccessfulPayment records a collected installment. The principal
// component is derived as amount - interest, clamped so it never exceeds the
// outstanding balance and never goes below zero.
func NewSuccessfulPayment(
	loanID string,
	sequence int,
	dueDate, paidAt time.Time,
	amount, interest, penalty decimal.Decimal,
	daysLate int,
	outstandingAfter decimal.Decimal,
) (PaymentEvent, error) {
	if sequence <= 0 {
		return PaymentEvent{}, valueobject.ErrInconsistentLedger
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return PaymentEvent{}, valueobject.ErrInconsistentLedger
	}
	if daysLate < 0 || outstandingAfter.IsNegative() {
		return PaymentEvent{}, valueobject.ErrInconsistentLedger
	}

	amountRec := amount.Round(2)
	interestRec := interest.Round(2)
	if interestRec.IsNegative() {
		interestRec = decimal.Zero
	}
	if interestRec.GreaterThan(amountRec) {
		interestRec = amountRec
	}
	principalRec := amountRec.Sub(interestRec)

	return PaymentEvent{
		ID:               newID("payment", loanID, strconv.Itoa(sequence)),
		LoanID:           loanID,
		Sequence:         sequence,
		DueDate:          dueDate,
		PaidAt:           paidAt,
		Amount:           amountRec,
		Principal:        principalRec,
		Interest:         interestRec,
		Penalty:          penalty.Round(2),
		DaysLate:         daysLate,
		Status:           valueobject.PaymentStatusSuccessful,
		OutstandingAfter: outstandingAfter.Round(2),
	}, nil
}

// NewFailedPayment records a missed installment. No money moves: amount,
// principal and interest are zero and the outstanding balance is unchanged.
// The penalty accrued for the delay is still recorded.
func NewFailedPayment(
	loanID string,
	sequence int,
	dueDate, attemptedAt time.Time,
	penalty decimal.Decimal,
	daysLate int,
	outstanding decimal.Decimal,
) (PaymentEvent, error) {
	if sequence <= 0 || daysLate < 0 || outstanding.IsNegative() {
		return PaymentEvent{}, valueobject.ErrInconsistentLedger
	}
	return PaymentEvent{
		ID:               newID("payment", loanID, strconv.Itoa(sequence)),
		LoanID:           loanID,
		Sequence:         sequence,
		DueDate:          dueDate,
		PaidAt:           attemptedAt,
		Amount:           decimal.Zero,
		Principal:        decimal.Zero,
		Interest:         decimal.Zero,
		Penalty:          penalty.Round(2),
		DaysLate:         daysLate,
		Status:           valueobject.PaymentStatusFailed,
		OutstandingAfter: outstanding.Round(2),
	}, nil
}
