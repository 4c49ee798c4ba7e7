package port

import (
	"context"

	"github.com/edufin/loansim/internal/domain/event"
	"github.com/edufin/loansim/internal/domain/model"
)

// ApplicationSource yields the pending applications a run operates on,
// oldest first, joined with their credit profiles.
type ApplicationSource interface {
	FindPending(ctx context.Context, limit int) ([]model.PendingApplication, error)
}

// LoanRepository persists decided loans.
type LoanRepository interface {
	SaveAll(ctx context.Context, loans []model.Loan) error
}

// PaymentEventRepository persists payment ledgers.
type PaymentEventRepository interface {
	SaveAll(ctx context.Context, events []model.PaymentEvent) error
}

// DefaultRecordRepository persists collections outcomes.
type DefaultRecordRepository interface {
	SaveAll(ctx context.Context, records []model.DefaultRecord) error
}

// EventPublisher pushes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
