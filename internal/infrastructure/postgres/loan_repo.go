package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edufin/loansim/internal/domain/model"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// SaveAll persists the decided loans of a run in one batch (upsert).
func (r *LoanRepo) SaveAll(ctx context.Context, loans []model.Loan) error {
	if len(loans) == 0 {
		return nil
	}

	query := `
		INSERT INTO loans (
			id, application_id, customer_id, status, risk_tier, risk_category,
			requested_amount, sanctioned_amount, installment, annual_rate_pct,
			term_months, disbursed_at, outstanding, decided_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			status      = EXCLUDED.status,
			outstanding = EXCLUDED.outstanding,
			updated_at  = EXCLUDED.updated_at
	`
	batch := &pgx.Batch{}
	for _, l := range loans {
		batch.Queue(query,
			l.ID(), l.ApplicationID(), l.CustomerID(),
			l.Status().String(), l.Tier().String(), l.RiskCategory().String(),
			l.RequestedAmount(), l.SanctionedAmount(), l.Installment(), l.AnnualRatePct(),
			l.TermMonths(), l.DisbursedAt(), l.Outstanding(), l.DecidedAt(), l.UpdatedAt(),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range loans {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("save loans: %w", err)
		}
	}
	return nil
}
