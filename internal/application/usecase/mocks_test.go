package usecase_test

import (
	"context"
	"sync"

	"github.com/edufin/loansim/internal/domain/event"
	"github.com/edufin/loansim/internal/domain/model"
)

type mockApplicationSource struct {
	findPendingFunc func(ctx context.Context, limit int) ([]model.PendingApplication, error)
}

func (m *mockApplicationSource) FindPending(ctx context.Context, limit int) ([]model.PendingApplication, error) {
	return m.findPendingFunc(ctx, limit)
}

type mockLoanRepository struct {
	mu         sync.Mutex
	savedLoans []model.Loan
	saveErr    error
}

func (m *mockLoanRepository) SaveAll(ctx context.Context, loans []model.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedLoans = append(m.savedLoans, loans...)
	return nil
}

type mockPaymentEventRepository struct {
	mu          sync.Mutex
	savedEvents []model.PaymentEvent
	saveErr     error
}

func (m *mockPaymentEventRepository) SaveAll(ctx context.Context, events []model.PaymentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedEvents = append(m.savedEvents, events...)
	return nil
}

type mockDefaultRecordRepository struct {
	mu           sync.Mutex
	savedRecords []model.DefaultRecord
	saveErr      error
}

func (m *mockDefaultRecordRepository) SaveAll(ctx context.Context, records []model.DefaultRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedRecords = append(m.savedRecords, records...)
	return nil
}

type mockEventPublisher struct {
	mu              sync.Mutex
	publishedEvents []event.DomainEvent
	publishErr      error
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.publishedEvents = append(m.publishedEvents, events...)
	return nil
}
