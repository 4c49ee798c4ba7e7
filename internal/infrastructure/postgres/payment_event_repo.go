package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edufin/loansim/internal/domain/model"
)

// PaymentEventRepo implements port.PaymentEventRepository.
type PaymentEventRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentEventRepo(pool *pgxpool.Pool) *PaymentEventRepo {
	return &PaymentEventRepo{pool: pool}
}

// SaveAll persists the payment ledgers of a run in one batch.
func (r *PaymentEventRepo) SaveAll(ctx context.Context, events []model.PaymentEvent) error {
	if len(events) == 0 {
		return nil
	}

	query := `
		INSERT INTO payment_events (
			id, loan_id, sequence, due_date, paid_at,
			amount, principal, interest, penalty,
			days_late, status, outstanding_after
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (loan_id, sequence) DO NOTHING
	`
	batch := &pgx.Batch{}
	for _, pe := range events {
		batch.Queue(query,
			pe.ID, pe.LoanID, pe.Sequence, pe.DueDate, pe.PaidAt,
			pe.Amount, pe.Principal, pe.Interest, pe.Penalty,
			pe.DaysLate, pe.Status.String(), pe.OutstandingAfter,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("save payment events: %w", err)
		}
	}
	return nil
}
