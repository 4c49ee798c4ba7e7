package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/edufin/loansim/internal/domain/model"
	"github.com/edufin/loansim/internal/domain/valueobject"
)

type scannable interface {
	Scan(dest ...any) error
}

// ApplicationSource implements port.ApplicationSource over the application
// intake tables.
type ApplicationSource struct {
	pool *pgxpool.Pool
}

func NewApplicationSource(pool *pgxpool.Pool) *ApplicationSource {
	return &ApplicationSource{pool: pool}
}

// FindPending returns pending applications joined with their credit
// profiles, oldest first. A non-positive limit means no limit.
func (s *ApplicationSource) FindPending(ctx context.Context, limit int) ([]model.PendingApplication, error) {
	query := `
		SELECT
			a.id, a.customer_id, a.requested_amount, a.annual_rate_pct,
			a.applied_at, a.course_duration_months,
			p.credit_score, p.annual_income, p.risk_tier
		FROM loan_applications a
		JOIN customer_profiles p ON p.customer_id = a.customer_id
		WHERE a.status = 'PENDING'
		ORDER BY a.applied_at, a.id
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending applications: %w", err)
	}
	defer rows.Close()

	var result []model.PendingApplication
	for rows.Next() {
		pending, err := scanPendingApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, pending)
	}
	return result, rows.Err()
}

func scanPendingApplication(s scannable) (model.PendingApplication, error) {
	var (
		id, customerID            string
		requested, income         decimal.Decimal
		annualRatePct             float64
		appliedAt                 time.Time
		courseMonths, creditScore int
		tierStr                   string
	)
	err := s.Scan(
		&id, &customerID, &requested, &annualRatePct,
		&appliedAt, &courseMonths,
		&creditScore, &income, &tierStr,
	)
	if err != nil {
		return model.PendingApplication{}, fmt.Errorf("scan pending application: %w", err)
	}

	tier, err := valueobject.NewRiskTier(tierStr)
	if err != nil {
		return model.PendingApplication{}, fmt.Errorf("parse risk tier: %w", err)
	}

	return model.PendingApplication{
		Application: model.LoanApplication{
			ID:                   id,
			CustomerID:           customerID,
			RequestedAmount:      requested,
			AnnualRatePct:        annualRatePct,
			AppliedAt:            appliedAt,
			CourseDurationMonths: courseMonths,
		},
		Profile: model.CustomerCreditProfile{
			CustomerID:   customerID,
			CreditScore:  creditScore,
			AnnualIncome: income,
			Tier:         tier,
		},
	}, nil
}
