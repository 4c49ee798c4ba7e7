package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/internal/domain/event"
	"github.com/edufin/loansim/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is the decided form of an application. It is an immutable aggregate:
// mutations return a new copy. Once the status is terminal (CLOSED, DEFAULTED,
// REJECTED) no further transition is accepted.
type Loan struct {
	id               string
	applicationID    string
	customerID       string
	status           valueobject.LoanStatus
	tier             valueobject.RiskTier
	riskCategory     valueobject.RiskCategory
	requestedAmount  decimal.Decimal
	sanctionedAmount decimal.Decimal
	installment      decimal.Decimal
	annualRatePct    float64
	termMonths       int
	disbursedAt      *time.Time
	outstanding      decimal.Decimal
	decidedAt        time.Time
	updatedAt        time.Time
	domainEvents     []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewSanctionedLoan creates an approved loan in SANCTIONED status with the
// full principal outstanding.
func NewSanctionedLoan(
	app LoanApplication,
	profile CustomerCreditProfile,
	sanctioned decimal.Decimal,
	termMonths int,
	installment decimal.Decimal,
	disbursedAt time.Time,
	now time.Time,
) (Loan, error) {
	if sanctioned.LessThanOrEqual(decimal.Zero) {
		return Loan{}, errors.New("sanctioned amount must be positive")
	}
	if sanctioned.GreaterThan(app.RequestedAmount) {
		return Loan{}, errors.New("sanctioned amount exceeds requested amount")
	}
	if termMonths <= 0 {
		return Loan{}, errors.New("term months must be positive")
	}
	if installment.LessThanOrEqual(decimal.Zero) {
		return Loan{}, errors.New("installment must be positive")
	}
	if disbursedAt.IsZero() {
		return Loan{}, valueobject.ErrMissingDisbursement
	}

	id := newID("loan", app.ID)
	loan := Loan{
		id:               id,
		applicationID:    app.ID,
		customerID:       app.CustomerID,
		status:           valueobject.LoanStatusSanctioned,
		tier:             profile.Tier,
		riskCategory:     profile.Tier.Category(),
		requestedAmount:  app.RequestedAmount,
		sanctionedAmount: sanctioned,
		installment:      installment,
		annualRatePct:    app.AnnualRatePct,
		termMonths:       termMonths,
		disbursedAt:      &disbursedAt,
		outstanding:      sanctioned,
		decidedAt:        now,
		updatedAt:        now,
	}

	loan.domainEvents = append(loan.domainEvents, event.NewLoanSanctioned(
		id, app.ID, app.CustomerID, loan.riskCategory.String(),
		sanctioned, installment, termMonths, disbursedAt, now,
	))
	return loan, nil
}

// NewRejectedLoan creates a declined loan. A rejected loan carries no
// disbursement date and no installment, and never produces payments.
func NewRejectedLoan(app LoanApplication, profile CustomerCreditProfile, now time.Time) Loan {
	id := newID("loan", app.ID)
	loan := Loan{
		id:              id,
		applicationID:   app.ID,
		customerID:      app.CustomerID,
		status:          valueobject.LoanStatusRejected,
		tier:            profile.Tier,
		riskCategory:    profile.Tier.Category(),
		requestedAmount: app.RequestedAmount,
		annualRatePct:   app.AnnualRatePct,
		decidedAt:       now,
		updatedAt:       now,
	}
	loan.domainEvents = append(loan.domainEvents, event.NewLoanRejected(
		id, app.ID, app.CustomerID, app.RequestedAmount, profile.CreditScore, now,
	))
	return loan
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// Activate transitions SANCTIONED -> ACTIVE at the first payment opportunity.
func (l Loan) Activate(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusSanctioned) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusActive
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next, nil
}

// UpdateOutstanding records the ledger position after a simulated month.
func (l Loan) UpdateOutstanding(outstanding decimal.Decimal, now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	if outstanding.IsNegative() {
		return l, valueobject.ErrInconsistentLedger
	}
	next := l
	next.outstanding = outstanding
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next, nil
}

// Close transitions ACTIVE|SANCTIONED -> CLOSED once the ledger reaches the
// residual threshold or the term is exhausted.
func (l Loan) Close(paymentCount int, now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) && !l.status.Equal(valueobject.LoanStatusSanctioned) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusClosed
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanClosed(l.id, l.outstanding, paymentCount, now))
	return next, nil
}

// MarkDefaulted transitions ACTIVE -> DEFAULTED.
func (l Loan) MarkDefaulted(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusDefaulted
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanDefaulted(l.id, l.outstanding, l.riskCategory.String(), now))
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                             { return l.id }
func (l Loan) ApplicationID() string                  { return l.applicationID }
func (l Loan) CustomerID() string                     { return l.customerID }
func (l Loan) Status() valueobject.LoanStatus         { return l.status }
func (l Loan) Tier() valueobject.RiskTier             { return l.tier }
func (l Loan) RiskCategory() valueobject.RiskCategory { return l.riskCategory }
func (l Loan) RequestedAmount() decimal.Decimal       { return l.requestedAmount }
func (l Loan) SanctionedAmount() decimal.Decimal      { return l.sanctionedAmount }
func (l Loan) Installment() decimal.Decimal           { return l.installment }
func (l Loan) AnnualRatePct() float64                 { return l.annualRatePct }
func (l Loan) TermMonths() int                        { return l.termMonths }
func (l Loan) Outstanding() decimal.Decimal           { return l.outstanding }
func (l Loan) DecidedAt() time.Time                   { return l.decidedAt }
func (l Loan) UpdatedAt() time.Time                   { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent      { return l.domainEvents }

// DisbursedAt returns the disbursement date, nil for rejected loans.
func (l Loan) DisbursedAt() *time.Time {
	if l.disbursedAt == nil {
		return nil
	}
	d := *l.disbursedAt
	return &d
}

// ClearEvents returns a copy with an empty event list (call after publishing).
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
