package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Loan lifecycle events
// ---------------------------------------------------------------------------

// LoanSanctioned is raised when underwriting approves an application.
type LoanSanctioned struct {
	events.BaseEvent
	ApplicationID    string          `json:"application_id"`
	CustomerID       string          `json:"customer_id"`
	RiskCategory     string          `json:"risk_category"`
	SanctionedAmount decimal.Decimal `json:"sanctioned_amount"`
	Installment      decimal.Decimal `json:"installment"`
	TermMonths       int             `json:"term_months"`
	DisbursedAt      time.Time       `json:"disbursed_at"`
}

func NewLoanSanctioned(
	loanID, applicationID, customerID, riskCategory string,
	sanctioned, installment decimal.Decimal,
	termMonths int, disbursedAt, occurredAt time.Time,
) LoanSanctioned {
	return LoanSanctioned{
		BaseEvent:        events.NewBaseEvent("loansim.loan.sanctioned", loanID, "Loan", occurredAt),
		ApplicationID:    applicationID,
		CustomerID:       customerID,
		RiskCategory:     riskCategory,
		SanctionedAmount: sanctioned,
		Installment:      installment,
		TermMonths:       termMonths,
		DisbursedAt:      disbursedAt,
	}
}

// LoanRejected is raised when underwriting declines an application.
type LoanRejected struct {
	events.BaseEvent
	ApplicationID   string          `json:"application_id"`
	CustomerID      string          `json:"customer_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	CreditScore     int             `json:"credit_score"`
}

func NewLoanRejected(
	loanID, applicationID, customerID string,
	requested decimal.Decimal, creditScore int,
	occurredAt time.Time,
) LoanRejected {
	return LoanRejected{
		BaseEvent:       events.NewBaseEvent("loansim.loan.rejected", loanID, "Loan", occurredAt),
		ApplicationID:   applicationID,
		CustomerID:      customerID,
		RequestedAmount: requested,
		CreditScore:     creditScore,
	}
}

// LoanClosed is raised when a simulated ledger reaches payoff or term end.
type LoanClosed struct {
	events.BaseEvent
	Outstanding  decimal.Decimal `json:"outstanding"`
	PaymentCount int             `json:"payment_count"`
}

func NewLoanClosed(loanID string, outstanding decimal.Decimal, paymentCount int, occurredAt time.Time) LoanClosed {
	return LoanClosed{
		BaseEvent:    events.NewBaseEvent("loansim.loan.closed", loanID, "Loan", occurredAt),
		Outstanding:  outstanding,
		PaymentCount: paymentCount,
	}
}

// LoanDefaulted is raised when the simulation flags a loan as defaulted.
type LoanDefaulted struct {
	events.BaseEvent
	Outstanding  decimal.Decimal `json:"outstanding"`
	RiskCategory string          `json:"risk_category"`
}

func NewLoanDefaulted(loanID string, outstanding decimal.Decimal, riskCategory string, occurredAt time.Time) LoanDefaulted {
	return LoanDefaulted{
		BaseEvent:    events.NewBaseEvent("loansim.loan.defaulted", loanID, "Loan", occurredAt),
		Outstanding:  outstanding,
		RiskCategory: riskCategory,
	}
}

// ---------------------------------------------------------------------------
// Collections events
// ---------------------------------------------------------------------------

// DefaultRecorded is raised when the resolver produces a collections record.
type DefaultRecorded struct {
	events.BaseEvent
	LoanID          string          `json:"loan_id"`
	Bucket          string          `json:"bucket"`
	CollectionStage string          `json:"collection_stage"`
	Reason          string          `json:"reason"`
	DefaultAmount   decimal.Decimal `json:"default_amount"`
	RecoveredAmount decimal.Decimal `json:"recovered_amount"`
	RecoveryPct     float64         `json:"recovery_pct"`
}

func NewDefaultRecorded(
	recordID, loanID, bucket, stage, reason string,
	defaultAmount, recovered decimal.Decimal, recoveryPct float64,
	occurredAt time.Time,
) DefaultRecorded {
	return DefaultRecorded{
		BaseEvent:       events.NewBaseEvent("loansim.default.recorded", recordID, "DefaultRecord", occurredAt),
		LoanID:          loanID,
		Bucket:          bucket,
		CollectionStage: stage,
		Reason:          reason,
		DefaultAmount:   defaultAmount,
		RecoveredAmount: recovered,
		RecoveryPct:     recoveryPct,
	}
}

// ---------------------------------------------------------------------------
// Run events
// ---------------------------------------------------------------------------

// SimulationRunCompleted is raised once per orchestrator run.
type SimulationRunCompleted struct {
	events.BaseEvent
	Loans     int `json:"loans"`
	Rejected  int `json:"rejected"`
	Skipped   int `json:"skipped"`
	Flagged   int `json:"flagged"`
	Defaulted int `json:"defaulted"`
	Payments  int `json:"payments"`
}

func NewSimulationRunCompleted(runID string, loans, rejected, skipped, flagged, defaulted, payments int, occurredAt time.Time) SimulationRunCompleted {
	return SimulationRunCompleted{
		BaseEvent: events.NewBaseEvent("loansim.run.completed", runID, "SimulationRun", occurredAt),
		Loans:     loans,
		Rejected:  rejected,
		Skipped:   skipped,
		Flagged:   flagged,
		Defaulted: defaulted,
		Payments:  payments,
	}
}
