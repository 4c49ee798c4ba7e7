package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Input records (created by the external reference-data generator; the engine
// only ever reads them)
// ---------------------------------------------------------------------------

// LoanApplication is one static loan request.
type LoanApplication struct {
	ID                   string
	CustomerID           string
	RequestedAmount      decimal.Decimal
	AnnualRatePct        float64
	AppliedAt            time.Time
	CourseDurationMonths int
}

// CustomerCreditProfile carries the credit attributes of the applying
// customer.
type CustomerCreditProfile struct {
	CustomerID   string
	CreditScore  int
	AnnualIncome decimal.Decimal
	Tier         valueobject.RiskTier
}

// PendingApplication pairs an application with its owning customer's profile.
// The orchestrator consumes an ordered batch of these.
type PendingApplication struct {
	Application LoanApplication
	Profile     CustomerCreditProfile
}

// Validate rejects applications the underwriter must never see. The error
// wraps ErrInvalidApplication so callers can count and exclude the record
// without failing the batch.
func (p PendingApplication) Validate() error {
	if p.Application.RequestedAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: requested amount %s is not positive",
			valueobject.ErrInvalidApplication, p.Application.RequestedAmount)
	}
	if p.Profile.AnnualIncome.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: annual income %s is not positive",
			valueobject.ErrInvalidApplication, p.Profile.AnnualIncome)
	}
	if p.Application.CourseDurationMonths <= 0 {
		return fmt.Errorf("%w: course duration %d months is not positive",
			valueobject.ErrInvalidApplication, p.Application.CourseDurationMonths)
	}
	if p.Application.CustomerID != p.Profile.CustomerID {
		return fmt.Errorf("%w: application customer %s does not match profile customer %s",
			valueobject.ErrInvalidApplication, p.Application.CustomerID, p.Profile.CustomerID)
	}
	if p.Profile.Tier.IsZero() {
		return fmt.Errorf("%w: customer %s has no risk tier",
			valueobject.ErrInvalidApplication, p.Profile.CustomerID)
	}
	return nil
}
