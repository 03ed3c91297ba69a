package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bibbank/purchase-approval/internal/domain/event"
	"github.com/bibbank/purchase-approval/internal/domain/model"
	"github.com/bibbank/purchase-approval/internal/domain/port"
)

// --- Mock implementations ---

type mockApplicationRepository struct {
	saveFunc             func(ctx context.Context, app model.PurchaseApplication) error
	findByIDFunc         func(ctx context.Context, id string) (model.PurchaseApplication, error)
	findByPersonalIDFunc func(ctx context.Context, personalID string) ([]model.PurchaseApplication, error)
	savedApps            []model.PurchaseApplication
}

func (m *mockApplicationRepository) Save(ctx context.Context, app model.PurchaseApplication) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, app)
	}
	m.savedApps = append(m.savedApps, app)
	return nil
}

func (m *mockApplicationRepository) FindByID(ctx context.Context, id string) (model.PurchaseApplication, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.PurchaseApplication{}, port.ErrApplicationNotFound
}

func (m *mockApplicationRepository) FindByPersonalID(ctx context.Context, personalID string) ([]model.PurchaseApplication, error) {
	if m.findByPersonalIDFunc != nil {
		return m.findByPersonalIDFunc(ctx, personalID)
	}
	return nil, nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockCapacityLookup struct {
	capacityFunc func(ctx context.Context, personalID string) (int, error)
	calls        int
}

func (m *mockCapacityLookup) CapacityFactor(ctx context.Context, personalID string) (int, error) {
	m.calls++
	if m.capacityFunc != nil {
		return m.capacityFunc(ctx, personalID)
	}
	return 0, port.ErrUnknownCustomer
}

func fixedCapacity(factor int) *mockCapacityLookup {
	return &mockCapacityLookup{
		capacityFunc: func(context.Context, string) (int, error) { return factor, nil },
	}
}

type mockDecisionRecorder struct {
	mu         sync.Mutex
	recordFunc func(ctx context.Context, rec port.DecisionRecord) error
	records    []port.DecisionRecord
}

func (m *mockDecisionRecorder) Record(ctx context.Context, rec port.DecisionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordFunc != nil {
		return m.recordFunc(ctx, rec)
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockDecisionRecorder) Prune(context.Context, time.Time) (int64, error) { return 0, nil }
func (m *mockDecisionRecorder) Close() error                                    { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
