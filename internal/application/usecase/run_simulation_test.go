package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edufin/loansim/internal/application/dto"
	"github.com/edufin/loansim/internal/application/usecase"
	"github.com/edufin/loansim/internal/domain/catalog"
	"github.com/edufin/loansim/internal/domain/model"
	"github.com/edufin/loansim/internal/domain/valueobject"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBatch(n int) []model.PendingApplication {
	tiers := valueobject.AllRiskTiers()
	scores := []int{780, 690, 590, 480}

	batch := make([]model.PendingApplication, 0, n)
	for i := 0; i < n; i++ {
		customerID := fmt.Sprintf("cust-%03d", i)
		batch = append(batch, model.PendingApplication{
			Application: model.LoanApplication{
				ID:                   fmt.Sprintf("app-%03d", i),
				CustomerID:           customerID,
				RequestedAmount:      decimal.NewFromInt(int64(200000 + i*5000)),
				AnnualRatePct:        10.5,
				AppliedAt:            time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i*7),
				CourseDurationMonths: 12 + (i%4)*12,
			},
			Profile: model.CustomerCreditProfile{
				CustomerID:   customerID,
				CreditScore:  scores[i%len(scores)],
				AnnualIncome: decimal.NewFromInt(int64(300000 + i*10000)),
				Tier:         tiers[i%len(tiers)],
			},
		})
	}
	return batch
}

func newUseCase(
	t *testing.T,
	source *mockApplicationSource,
	loans *mockLoanRepository,
	payments *mockPaymentEventRepository,
	defaults *mockDefaultRecordRepository,
	publisher *mockEventPublisher,
) *usecase.RunSimulationUseCase {
	t.Helper()
	uc, err := usecase.NewRunSimulationUseCase(
		catalog.Default(), source, loans, payments, defaults, publisher, testLogger(),
	)
	require.NoError(t, err)
	return uc
}

func TestNewRunSimulationUseCase(t *testing.T) {
	t.Run("refuses an invalid catalog", func(t *testing.T) {
		_, err := usecase.NewRunSimulationUseCase(
			catalog.Catalog{},
			&mockApplicationSource{},
			&mockLoanRepository{}, &mockPaymentEventRepository{}, &mockDefaultRecordRepository{},
			&mockEventPublisher{}, testLogger(),
		)
		assert.ErrorIs(t, err, usecase.ErrInvalidCatalog)
	})
}

func TestRunSimulation_Execute(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("simulates a full batch and persists the portfolio", func(t *testing.T) {
		batch := testBatch(40)
		source := &mockApplicationSource{
			findPendingFunc: func(ctx context.Context, limit int) ([]model.PendingApplication, error) {
				return batch, nil
			},
		}
		loans := &mockLoanRepository{}
		payments := &mockPaymentEventRepository{}
		defaults := &mockDefaultRecordRepository{}
		publisher := &mockEventPublisher{}
		uc := newUseCase(t, source, loans, payments, defaults, publisher)

		result, err := uc.Execute(context.Background(), dto.SimulationRequest{
			Seed: 42, AsOf: asOf, Parallelism: 4,
		})
		require.NoError(t, err)

		assert.Equal(t, 40, result.Summary.Loans+result.Summary.Skipped)
		assert.Len(t, loans.savedLoans, result.Summary.Loans)
		assert.Len(t, result.Loans, result.Summary.Loans)
		assert.Len(t, payments.savedEvents, result.Summary.Payments)
		assert.Len(t, result.Payments, result.Summary.Payments)
		assert.Len(t, defaults.savedRecords, result.Summary.Defaulted)
		assert.Len(t, result.Defaults, result.Summary.Defaulted)
		assert.Positive(t, result.Summary.Payments, "a multi-year batch must produce payments")

		// The ledger is grouped by loan, sequences restarting at 1.
		lastLoan, lastSeq := "", 0
		for _, pe := range result.Payments {
			if pe.LoanID != lastLoan {
				lastLoan, lastSeq = pe.LoanID, 0
			}
			assert.Equal(t, lastSeq+1, pe.Sequence)
			lastSeq = pe.Sequence
		}

		for _, l := range loans.savedLoans {
			status := l.Status()
			if status.Equal(valueobject.LoanStatusRejected) {
				assert.Nil(t, l.DisbursedAt())
				continue
			}
			assert.False(t, l.Outstanding().IsNegative())
		}

		require.NotEmpty(t, publisher.publishedEvents)
		last := publisher.publishedEvents[len(publisher.publishedEvents)-1]
		assert.Equal(t, "loansim.run.completed", last.EventType())
	})

	t.Run("same seed reproduces the same portfolio", func(t *testing.T) {
		batch := testBatch(25)
		run := func() dto.SimulationResult {
			source := &mockApplicationSource{
				findPendingFunc: func(ctx context.Context, limit int) ([]model.PendingApplication, error) {
					return batch, nil
				},
			}
			uc := newUseCase(t, source,
				&mockLoanRepository{}, &mockPaymentEventRepository{}, &mockDefaultRecordRepository{},
				&mockEventPublisher{})
			result, err := uc.Execute(context.Background(), dto.SimulationRequest{
				Seed: 7, AsOf: asOf, Parallelism: 8,
			})
			require.NoError(t, err)
			return result
		}

		first := run()
		second := run()

		// Identifiers are stable too: the collections must match byte for
		// byte, not just in shape.
		assert.Equal(t, first.Loans, second.Loans)
		assert.Equal(t, first.Payments, second.Payments)
		assert.Equal(t, first.Defaults, second.Defaults)
		assert.Equal(t, first.Summary.RunID, second.Summary.RunID)
		assert.Equal(t, first.Summary.Defaulted, second.Summary.Defaulted)
		assert.Equal(t, first.Summary.Payments, second.Summary.Payments)
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		batch := testBatch(25)
		run := func(seed uint64) dto.SimulationResult {
			source := &mockApplicationSource{
				findPendingFunc: func(ctx context.Context, limit int) ([]model.PendingApplication, error) {
					return batch, nil
				},
			}
			uc := newUseCase(t, source,
				&mockLoanRepository{}, &mockPaymentEventRepository{}, &mockDefaultRecordRepository{},
				&mockEventPublisher{})
			result, err := uc.Execute(context.Background(), dto.SimulationRequest{
				Seed: seed, AsOf: asOf, Parallelism: 4,
			})
			require.NoError(t, err)
			return result
		}

		first := run(1)
		second := run(2)

		same := len(first.Loans) == len(second.Loans)
		if same {
			for i := range first.Loans {
				if first.Loans[i].Status != second.Loans[i].Status ||
					first.Loans[i].Outstanding != second.Loans[i].Outstanding ||
					first.Loans[i].PaymentCount != second.Loans[i].PaymentCount {
					same = false
					break
				}
			}
		}
		assert.False(t, same, "two seeds should not produce identical portfolios")
	})

	t.Run("invalid applications are skipped not fatal", func(t *testing.T) {
		batch := testBatch(5)
		batch[2].Application.RequestedAmount = decimal.Zero
		source := &mockApplicationSource{
			findPendingFunc: func(ctx context.Context, limit int) ([]model.PendingApplication, error) {
				return batch, nil
			},
		}
		uc := newUseCase(t, source,
			&mockLoanRepository{}, &mockPaymentEventRepository{}, &mockDefaultRecordRepository{},
			&mockEventPublisher{})

		result, err := uc.Execute(context.Background(), dto.SimulationRequest{Seed: 3, AsOf: asOf})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Summary.Skipped)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, "app-002", result.Skipped[0].ApplicationID)
		assert.Contains(t, result.Skipped[0].Reason, "not positive")
	})

	t.Run("empty batch is fatal", func(t *testing.T) {
		source := &mockApplicationSource{
			findPendingFunc: func(ctx context.Context, limit int) ([]model.PendingApplication, error) {
				return nil, nil
			},
		}
		uc := newUseCase(t, source,
			&mockLoanRepository{}, &mockPaymentEventRepository{}, &mockDefaultRecordRepository{},
			&mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.SimulationRequest{Seed: 1, AsOf: asOf})
		assert.ErrorIs(t, err, usecase.ErrEmptyBatch)
	})

	t.Run("source failure is fatal", func(t *testing.T) {
		source := &mockApplicationSource{
			findPendingFunc: func(ctx context.Context, limit int) ([]model.PendingApplication, error) {
				return nil, fmt.Errorf("connection refused")
			},
		}
		uc := newUseCase(t, source,
			&mockLoanRepository{}, &mockPaymentEventRepository{}, &mockDefaultRecordRepository{},
			&mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.SimulationRequest{Seed: 1, AsOf: asOf})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch pending applications")
	})

	t.Run("persistence failure is fatal", func(t *testing.T) {
		source := &mockApplicationSource{
			findPendingFunc: func(ctx context.Context, limit int) ([]model.PendingApplication, error) {
				return testBatch(5), nil
			},
		}
		uc := newUseCase(t, source,
			&mockLoanRepository{saveErr: fmt.Errorf("pool closed")},
			&mockPaymentEventRepository{}, &mockDefaultRecordRepository{},
			&mockEventPublisher{})

		_, err := uc.Execute(context.Background(), dto.SimulationRequest{Seed: 1, AsOf: asOf})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "persist loans")
	})

	t.Run("publish failure does not fail the run", func(t *testing.T) {
		source := &mockApplicationSource{
			findPendingFunc: func(ctx context.Context, limit int) ([]model.PendingApplication, error) {
				return testBatch(5), nil
			},
		}
		uc := newUseCase(t, source,
			&mockLoanRepository{}, &mockPaymentEventRepository{}, &mockDefaultRecordRepository{},
			&mockEventPublisher{publishErr: fmt.Errorf("broker unavailable")})

		_, err := uc.Execute(context.Background(), dto.SimulationRequest{Seed: 1, AsOf: asOf})
		assert.NoError(t, err)
	})
}
