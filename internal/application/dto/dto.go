package dto

import (
	"time"

	"github.com/edufin/loansim/internal/domain/model"
)

// SimulationRequest configures one simulation run. The same seed over the
// same batch reproduces the same portfolio.
type SimulationRequest struct {
	Seed        uint64    `json:"seed"`
	AsOf        time.Time `json:"as_of"`
	Parallelism int       `json:"parallelism"`
	BatchLimit  int       `json:"batch_limit"`
}

// LoanResponse is the external view of a decided loan.
type LoanResponse struct {
	ID               string     `json:"id"`
	ApplicationID    string     `json:"application_id"`
	CustomerID       string     `json:"customer_id"`
	Status           string     `json:"status"`
	RiskTier         string     `json:"risk_tier"`
	RiskCategory     string     `json:"risk_category"`
	RequestedAmount  string     `json:"requested_amount"`
	SanctionedAmount string     `json:"sanctioned_amount"`
	Installment      string     `json:"installment"`
	AnnualRatePct    float64    `json:"annual_rate_pct"`
	TermMonths       int        `json:"term_months"`
	DisbursedAt      *time.Time `json:"disbursed_at,omitempty"`
	Outstanding      string     `json:"outstanding"`
	PaymentCount     int        `json:"payment_count"`
}

func FromLoan(l model.Loan, paymentCount int) LoanResponse {
	return LoanResponse{
		ID:               l.ID(),
		ApplicationID:    l.ApplicationID(),
		CustomerID:       l.CustomerID(),
		Status:           l.Status().String(),
		RiskTier:         l.Tier().String(),
		RiskCategory:     l.RiskCategory().String(),
		RequestedAmount:  l.RequestedAmount().StringFixed(2),
		SanctionedAmount: l.SanctionedAmount().StringFixed(2),
		Installment:      l.Installment().StringFixed(2),
		AnnualRatePct:    l.AnnualRatePct(),
		TermMonths:       l.TermMonths(),
		DisbursedAt:      l.DisbursedAt(),
		Outstanding:      l.Outstanding().StringFixed(2),
		PaymentCount:     paymentCount,
	}
}

// PaymentEventResponse is the external view of one ledger row.
type PaymentEventResponse struct {
	ID               string    `json:"id"`
	LoanID           string    `json:"loan_id"`
	Sequence         int       `json:"sequence"`
	DueDate          time.Time `json:"due_date"`
	PaidAt           time.Time `json:"paid_at"`
	Amount           string    `json:"amount"`
	Principal        string    `json:"principal"`
	Interest         string    `json:"interest"`
	Penalty          string    `json:"penalty"`
	DaysLate         int       `json:"days_late"`
	Status           string    `json:"status"`
	OutstandingAfter string    `json:"outstanding_after"`
}

func FromPaymentEvent(pe model.PaymentEvent) PaymentEventResponse {
	return PaymentEventResponse{
		ID:               pe.ID,
		LoanID:           pe.LoanID,
		Sequence:         pe.Sequence,
		DueDate:          pe.DueDate,
		PaidAt:           pe.PaidAt,
		Amount:           pe.Amount.StringFixed(2),
		Principal:        pe.Principal.StringFixed(2),
		Interest:         pe.Interest.StringFixed(2),
		Penalty:          pe.Penalty.StringFixed(2),
		DaysLate:         pe.DaysLate,
		Status:           pe.Status.String(),
		OutstandingAfter: pe.OutstandingAfter.StringFixed(2),
	}
}

// DefaultRecordResponse is the external view of a collections outcome.
type DefaultRecordResponse struct {
	ID                   string    `json:"id"`
	LoanID               string    `json:"loan_id"`
	DefaultedAt          time.Time `json:"defaulted_at"`
	DaysPastDue          int       `json:"days_past_due"`
	Bucket               string    `json:"bucket"`
	CollectionStage      string    `json:"collection_stage"`
	Reason               string    `json:"reason"`
	OutstandingAtDefault string    `json:"outstanding_at_default"`
	RecoveredAmount      string    `json:"recovered_amount"`
	RecoveryPct          float64   `json:"recovery_pct"`
	Warnings             []string  `json:"warnings,omitempty"`
}

func FromDefaultRecord(r model.DefaultRecord) DefaultRecordResponse {
	return DefaultRecordResponse{
		ID:                   r.ID,
		LoanID:               r.LoanID,
		DefaultedAt:          r.DefaultedAt,
		DaysPastDue:          r.DaysPastDue,
		Bucket:               r.Bucket.String(),
		CollectionStage:      r.Stage.String(),
		Reason:               r.Reason.String(),
		OutstandingAtDefault: r.OutstandingAtDefault.StringFixed(2),
		RecoveredAmount:      r.RecoveredAmount.StringFixed(2),
		RecoveryPct:          r.RecoveryPct,
		Warnings:             r.Warnings,
	}
}

// SkippedApplication explains why an application was excluded from a run.
type SkippedApplication struct {
	ApplicationID string `json:"application_id"`
	Reason        string `json:"reason"`
}

// RunSummary aggregates the outcome of a run.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	Seed      uint64        `json:"seed"`
	AsOf      time.Time     `json:"as_of"`
	Duration  time.Duration `json:"duration"`
	Loans     int           `json:"loans"`
	Rejected  int           `json:"rejected"`
	Skipped   int           `json:"skipped"`
	Defaulted int           `json:"defaulted"`
	Payments  int           `json:"payments"`
}

// SimulationResult is the full output of a run, ordered as the input batch.
// Payments are grouped by loan and ordered by sequence within each loan.
type SimulationResult struct {
	Summary  RunSummary              `json:"summary"`
	Loans    []LoanResponse          `json:"loans"`
	Payments []PaymentEventResponse  `json:"payments"`
	Defaults []DefaultRecordResponse `json:"defaults"`
	Skipped  []SkippedApplication    `json:"skipped,omitempty"`
}
