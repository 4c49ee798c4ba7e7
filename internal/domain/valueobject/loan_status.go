package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a simulated loan.
type LoanStatus struct {
	value string
}

const (
	loanStatusSanctioned = "SANCTIONED"
	loanStatusActive     = "ACTIVE"
	loanStatusClosed     = "CLOSED"
	loanStatusDefaulted  = "DEFAULTED"
	loanStatusRejected   = "REJECTED"
)

var (
	LoanStatusSanctioned = LoanStatus{value: loanStatusSanctioned}
	LoanStatusActive     = LoanStatus{value: loanStatusActive}
	LoanStatusClosed     = LoanStatus{value: loanStatusClosed}
	LoanStatusDefaulted  = LoanStatus{value: loanStatusDefaulted}
	LoanStatusRejected   = LoanStatus{value: loanStatusRejected}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusSanctioned: LoanStatusSanctioned,
	loanStatusActive:     LoanStatusActive,
	loanStatusClosed:     LoanStatusClosed,
	loanStatusDefaulted:  LoanStatusDefaulted,
	loanStatusRejected:   LoanStatusRejected,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// IsTerminal reports whether the loan can never change state again.
func (s LoanStatus) IsTerminal() bool {
	return s.value == loanStatusClosed || s.value == loanStatusDefaulted || s.value == loanStatusRejected
}

// ---------------------------------------------------------------------------
// PaymentStatus – immutable value object
// ---------------------------------------------------------------------------

// PaymentStatus represents the outcome of a single payment event.
type PaymentStatus struct {
	value string
}

const (
	paymentStatusSuccessful = "SUCCESSFUL"
	paymentStatusFailed     = "FAILED"
)

var (
	PaymentStatusSuccessful = PaymentStatus{value: paymentStatusSuccessful}
	PaymentStatusFailed     = PaymentStatus{value: paymentStatusFailed}
)

var validPaymentStatuses = map[string]PaymentStatus{
	paymentStatusSuccessful: PaymentStatusSuccessful,
	paymentStatusFailed:     PaymentStatusFailed,
}

// NewPaymentStatus creates a PaymentStatus from a raw string.
func NewPaymentStatus(s string) (PaymentStatus, error) {
	v, ok := validPaymentStatuses[s]
	if !ok {
		return PaymentStatus{}, fmt.Errorf("invalid payment status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s PaymentStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s PaymentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s PaymentStatus) Equal(other PaymentStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrInvalidApplication marks an application with non-positive principal,
	// income, or course duration. The record is excluded from the batch.
	ErrInvalidApplication = errors.New("invalid loan application")

	// ErrMissingDisbursement marks an approved loan without a disbursement
	// date. The payment simulator skips it.
	ErrMissingDisbursement = errors.New("loan has no disbursement date")

	// ErrInconsistentLedger marks a clamped ledger value (negative
	// outstanding principal or negative days past due). A data-quality
	// warning, never fatal.
	ErrInconsistentLedger = errors.New("inconsistent ledger value clamped")

	// ErrIterationCapExceeded marks a ledger truncated by the monthly-loop
	// safety bound.
	ErrIterationCapExceeded = errors.New("payment loop iteration cap exceeded")
)
