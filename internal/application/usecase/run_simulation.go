package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/edufin/loansim/internal/application/dto"
	"github.com/edufin/loansim/internal/domain/catalog"
	"github.com/edufin/loansim/internal/domain/event"
	"github.com/edufin/loansim/internal/domain/model"
	"github.com/edufin/loansim/internal/domain/port"
	"github.com/edufin/loansim/internal/domain/service"
	"github.com/edufin/loansim/internal/domain/valueobject"
)

var (
	// ErrInvalidCatalog means the parameter catalog failed validation. The
	// use case refuses to start rather than simulate with broken parameters.
	ErrInvalidCatalog = errors.New("invalid parameter catalog")

	// ErrEmptyBatch means no pending applications were found for the run.
	ErrEmptyBatch = errors.New("no pending applications in batch")
)

// RunSimulationUseCase drives one simulation run: fetch the pending batch,
// underwrite and replay every application concurrently, then persist the
// portfolio and publish its events.
//
// Randomness is deterministic per run: each application gets its own PCG
// stream keyed by (seed, batch index), so the outcome of one loan never
// depends on scheduling or on its neighbours.
type RunSimulationUseCase struct {
	source      port.ApplicationSource
	loans       port.LoanRepository
	payments    port.PaymentEventRepository
	defaults    port.DefaultRecordRepository
	publisher   port.EventPublisher
	underwriter *service.Underwriter
	simulator   *service.PaymentSimulator
	resolver    *service.DefaultResolver
	logger      *slog.Logger
}

func NewRunSimulationUseCase(
	cat catalog.Catalog,
	source port.ApplicationSource,
	loans port.LoanRepository,
	payments port.PaymentEventRepository,
	defaults port.DefaultRecordRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) (*RunSimulationUseCase, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, err)
	}
	return &RunSimulationUseCase{
		source:      source,
		loans:       loans,
		payments:    payments,
		defaults:    defaults,
		publisher:   publisher,
		underwriter: service.NewUnderwriter(cat),
		simulator:   service.NewPaymentSimulator(cat),
		resolver:    service.NewDefaultResolver(cat),
		logger:      logger,
	}, nil
}

// simOutcome carries one application's result back from a worker.
type simOutcome struct {
	applicationID string
	skipReason    string
	loan          model.Loan
	hasLoan       bool
	ledger        []model.PaymentEvent
	record        *model.DefaultRecord
}

func (uc *RunSimulationUseCase) Execute(ctx context.Context, req dto.SimulationRequest) (dto.SimulationResult, error) {
	start := time.Now()

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	// The run identity is name-based on (seed, horizon) so a rerun of the
	// same configuration is recognizable as the same run.
	runID := uuid.NewSHA1(uuid.NameSpaceOID,
		[]byte(fmt.Sprintf("run/%d/%s", req.Seed, asOf.Format(time.RFC3339)))).String()
	parallelism := req.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	batch, err := uc.source.FindPending(ctx, req.BatchLimit)
	if err != nil {
		return dto.SimulationResult{}, fmt.Errorf("fetch pending applications: %w", err)
	}
	if len(batch) == 0 {
		return dto.SimulationResult{}, ErrEmptyBatch
	}

	uc.logger.Info("simulation run started",
		"run_id", runID,
		"seed", req.Seed,
		"as_of", asOf,
		"batch_size", len(batch),
		"parallelism", parallelism,
	)

	outcomes := make([]simOutcome, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(req.Seed, uint64(i)))
			outcomes[i] = uc.simulateOne(batch[i], rng, asOf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.SimulationResult{}, fmt.Errorf("simulation workers: %w", err)
	}

	result, loans, ledger, records := uc.assemble(runID, req.Seed, asOf, outcomes)

	if err := uc.persist(ctx, loans, ledger, records); err != nil {
		return dto.SimulationResult{}, err
	}
	uc.publish(ctx, runID, loans, records, result.Summary)

	result.Summary.Duration = time.Since(start)
	uc.logger.Info("simulation run completed",
		"run_id", runID,
		"loans", result.Summary.Loans,
		"rejected", result.Summary.Rejected,
		"skipped", result.Summary.Skipped,
		"defaulted", result.Summary.Defaulted,
		"payments", result.Summary.Payments,
		"duration", result.Summary.Duration,
	)
	return result, nil
}

func (uc *RunSimulationUseCase) simulateOne(pending model.PendingApplication, rng service.Rand, asOf time.Time) simOutcome {
	appID := pending.Application.ID

	loan, err := uc.underwriter.Decide(pending, rng, asOf)
	if err != nil {
		uc.logger.Warn("application skipped", "application_id", appID, "error", err)
		return simOutcome{applicationID: appID, skipReason: err.Error()}
	}
	if loan.Status().Equal(valueobject.LoanStatusRejected) {
		return simOutcome{applicationID: appID, loan: loan, hasLoan: true}
	}

	out, err := uc.simulator.Run(loan, rng, asOf)
	if err != nil {
		if errors.Is(err, valueobject.ErrMissingDisbursement) {
			// Keep the sanctioned loan, there is just no history to replay.
			return simOutcome{applicationID: appID, loan: loan, hasLoan: true}
		}
		uc.logger.Warn("application skipped", "application_id", appID, "error", err)
		return simOutcome{applicationID: appID, skipReason: err.Error()}
	}
	for _, w := range out.Warnings {
		uc.logger.Warn("simulation warning", "application_id", appID, "loan_id", out.Loan.ID(), "warning", w)
	}
	loan = out.Loan

	oc := simOutcome{applicationID: appID, loan: loan, hasLoan: true, ledger: out.Ledger}
	if !out.Flagged {
		return oc
	}

	record, err := uc.resolver.Resolve(loan, out.Ledger, rng, asOf)
	if err != nil {
		uc.logger.Warn("application skipped", "application_id", appID, "error", err)
		return simOutcome{applicationID: appID, skipReason: err.Error()}
	}
	loan, err = loan.MarkDefaulted(asOf)
	if err != nil {
		uc.logger.Warn("application skipped", "application_id", appID, "error", err)
		return simOutcome{applicationID: appID, skipReason: err.Error()}
	}
	oc.loan = loan
	oc.record = &record
	return oc
}

// assemble folds worker outcomes, in input order, into the run result and
// the slices handed to persistence.
func (uc *RunSimulationUseCase) assemble(
	runID string,
	seed uint64,
	asOf time.Time,
	outcomes []simOutcome,
) (dto.SimulationResult, []model.Loan, []model.PaymentEvent, []model.DefaultRecord) {
	result := dto.SimulationResult{
		Summary: dto.RunSummary{RunID: runID, Seed: seed, AsOf: asOf},
	}
	var (
		loans   []model.Loan
		ledger  []model.PaymentEvent
		records []model.DefaultRecord
	)
	for _, oc := range outcomes {
		if !oc.hasLoan {
			result.Summary.Skipped++
			result.Skipped = append(result.Skipped, dto.SkippedApplication{
				ApplicationID: oc.applicationID,
				Reason:        oc.skipReason,
			})
			continue
		}
		loans = append(loans, oc.loan)
		ledger = append(ledger, oc.ledger...)
		for _, pe := range oc.ledger {
			result.Payments = append(result.Payments, dto.FromPaymentEvent(pe))
		}

		result.Summary.Loans++
		result.Summary.Payments += len(oc.ledger)
		switch {
		case oc.loan.Status().Equal(valueobject.LoanStatusRejected):
			result.Summary.Rejected++
		case oc.loan.Status().Equal(valueobject.LoanStatusDefaulted):
			result.Summary.Defaulted++
		}
		result.Loans = append(result.Loans, dto.FromLoan(oc.loan, successfulPayments(oc.ledger)))

		if oc.record != nil {
			records = append(records, *oc.record)
			result.Defaults = append(result.Defaults, dto.FromDefaultRecord(*oc.record))
		}
	}
	return result, loans, ledger, records
}

func (uc *RunSimulationUseCase) persist(ctx context.Context, loans []model.Loan, ledger []model.PaymentEvent, records []model.DefaultRecord) error {
	if err := uc.loans.SaveAll(ctx, loans); err != nil {
		return fmt.Errorf("persist loans: %w", err)
	}
	if err := uc.payments.SaveAll(ctx, ledger); err != nil {
		return fmt.Errorf("persist payment events: %w", err)
	}
	if err := uc.defaults.SaveAll(ctx, records); err != nil {
		return fmt.Errorf("persist default records: %w", err)
	}
	return nil
}

// publish pushes every domain event raised during the run. Publishing is
// best effort: the portfolio is already persisted, a broker outage must not
// fail the run.
func (uc *RunSimulationUseCase) publish(ctx context.Context, runID string, loans []model.Loan, records []model.DefaultRecord, summary dto.RunSummary) {
	var domainEvents []event.DomainEvent
	flagged := 0
	for _, l := range loans {
		domainEvents = append(domainEvents, l.DomainEvents()...)
		if l.Status().Equal(valueobject.LoanStatusDefaulted) {
			flagged++
		}
	}
	for _, r := range records {
		domainEvents = append(domainEvents, event.NewDefaultRecorded(
			r.ID, r.LoanID,
			r.Bucket.String(), r.Stage.String(), r.Reason.String(),
			r.OutstandingAtDefault, r.RecoveredAmount, r.RecoveryPct,
			summary.AsOf,
		))
	}
	domainEvents = append(domainEvents, event.NewSimulationRunCompleted(
		runID,
		summary.Loans, summary.Rejected, summary.Skipped,
		flagged, summary.Defaulted, summary.Payments,
		summary.AsOf,
	))

	if err := uc.publisher.Publish(ctx, domainEvents...); err != nil {
		uc.logger.Error("failed to publish run events", "run_id", runID, "error", err)
	}
}

func successfulPayments(ledger []model.PaymentEvent) int {
	n := 0
	for _, pe := range ledger {
		if pe.Status.Equal(valueobject.PaymentStatusSuccessful) {
			n++
		}
	}
	return n
}
