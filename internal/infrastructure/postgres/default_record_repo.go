package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edufin/loansim/internal/domain/model"
)

// DefaultRecordRepo implements port.DefaultRecordRepository.
type DefaultRecordRepo struct {
	pool *pgxpool.Pool
}

func NewDefaultRecordRepo(pool *pgxpool.Pool) *DefaultRecordRepo {
	return &DefaultRecordRepo{pool: pool}
}

// SaveAll persists the collections outcomes of a run in one batch (upsert).
func (r *DefaultRecordRepo) SaveAll(ctx context.Context, records []model.DefaultRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO default_records (
			id, loan_id, defaulted_at, days_past_due, bucket, collection_stage,
			reason, outstanding_at_default, recovered_amount, recovery_pct, warnings
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (loan_id) DO UPDATE SET
			defaulted_at           = EXCLUDED.defaulted_at,
			days_past_due          = EXCLUDED.days_past_due,
			bucket                 = EXCLUDED.bucket,
			collection_stage       = EXCLUDED.collection_stage,
			reason                 = EXCLUDED.reason,
			outstanding_at_default = EXCLUDED.outstanding_at_default,
			recovered_amount       = EXCLUDED.recovered_amount,
			recovery_pct           = EXCLUDED.recovery_pct,
			warnings               = EXCLUDED.warnings
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		warnings, err := json.Marshal(rec.Warnings)
		if err != nil {
			return fmt.Errorf("marshal warnings: %w", err)
		}
		batch.Queue(query,
			rec.ID, rec.LoanID, rec.DefaultedAt, rec.DaysPastDue,
			rec.Bucket.String(), rec.Stage.String(), rec.Reason.String(),
			rec.OutstandingAtDefault, rec.RecoveredAmount, rec.RecoveryPct,
			warnings,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("save default records: %w", err)
		}
	}
	return nil
}
