package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/internal/domain/valueobject"
)

// DefaultRecord captures the collections outcome of a defaulted loan.
type DefaultRecord struct {
	ID                   string
	LoanID               string
	DefaultedAt          time.Time
	DaysPastDue          int
	Bucket               valueobject.DelinquencyBucket
	Stage                valueobject.CollectionStage
	Reason               valueobject.DefaultReason
	OutstandingAtDefault decimal.Decimal
	RecoveredAmount      decimal.Decimal
	RecoveryPct          float64
	Warnings             []string
}

// NewDefaultRecord builds a record with the recovered amount derived from the
// recovery percentage: recovered = outstanding * pct / 100, rounded to 2dp.
func NewDefaultRecord(
	loanID string,
	defaultedAt time.Time,
	daysPastDue int,
	bucket valueobject.DelinquencyBucket,
	stage valueobject.CollectionStage,
	reason valueobject.DefaultReason,
	outstanding decimal.Decimal,
	recoveryPct float64,
	warnings []string,
) (DefaultRecord, error) {
	if daysPastDue < 0 {
		return DefaultRecord{}, errors.New("days past due must not be negative")
	}
	if outstanding.IsNegative() {
		return DefaultRecord{}, errors.New("outstanding at default must not be negative")
	}
	if recoveryPct < 0 || recoveryPct > 100 {
		return DefaultRecord{}, errors.New("recovery percentage out of range")
	}
	if bucket.IsZero() || stage.IsZero() || reason.IsZero() {
		return DefaultRecord{}, errors.New("bucket, stage and reason are required")
	}

	recovered := outstanding.
		Mul(decimal.NewFromFloat(recoveryPct)).
		Div(decimal.NewFromInt(100)).
		Round(2)

	return DefaultRecord{
		ID:                   newID("default", loanID),
		LoanID:               loanID,
		DefaultedAt:          defaultedAt,
		DaysPastDue:          daysPastDue,
		Bucket:               bucket,
		Stage:                stage,
		Reason:               reason,
		OutstandingAtDefault: outstanding.Round(2),
		RecoveredAmount:      recovered,
		RecoveryPct:          recoveryPct,
		Warnings:             warnings,
	}, nil
}
