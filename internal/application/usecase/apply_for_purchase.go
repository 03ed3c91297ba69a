package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/purchase-approval/internal/application/dto"
	"github.com/bibbank/purchase-approval/internal/domain/model"
	"github.com/bibbank/purchase-approval/internal/domain/port"
	"github.com/bibbank/purchase-approval/internal/domain/service"
	"github.com/bibbank/purchase-approval/pkg/money"
)

const instrumentationName = "github.com/bibbank/purchase-approval/internal/application/usecase"

// ApplyForPurchaseUseCase takes a financing request through capacity lookup,
// the approval search, persistence and event publication.
type ApplyForPurchaseUseCase struct {
	appRepo   port.PurchaseApplicationRepository
	publisher port.EventPublisher
	capacity  port.CapacityLookup
	engine    *service.ApprovalEngine
	recorder  port.DecisionRecorder
	logger    *slog.Logger
	tracer    trace.Tracer
	decisions metric.Int64Counter
	now       func() time.Time
}

// NewApplyForPurchaseUseCase wires dependencies. recorder may be nil, in which
// case decisions are not journaled.
func NewApplyForPurchaseUseCase(
	appRepo port.PurchaseApplicationRepository,
	publisher port.EventPublisher,
	capacity port.CapacityLookup,
	engine *service.ApprovalEngine,
	recorder port.DecisionRecorder,
	logger *slog.Logger,
) *ApplyForPurchaseUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	decisions, err := otel.Meter(instrumentationName).Int64Counter(
		"purchase.decisions",
		metric.WithDescription("Purchase approval decisions by outcome"),
	)
	if err != nil {
		logger.Warn("failed to create decision counter", "error", err)
		decisions = noop.Int64Counter{}
	}

	return &ApplyForPurchaseUseCase{
		appRepo:   appRepo,
		publisher: publisher,
		capacity:  capacity,
		engine:    engine,
		recorder:  recorder,
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		decisions: decisions,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Execute decides a request. A denial is a successful outcome; errors are
// reserved for invalid input, unknown customers and infrastructure failures.
func (uc *ApplyForPurchaseUseCase) Execute(
	ctx context.Context,
	req dto.ApplyForPurchaseRequest,
) (resp dto.PurchaseDecisionResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "ApplyForPurchase", trace.WithAttributes(
		attribute.Int("purchase.period_months", req.PaymentPeriodMonths),
		attribute.String("purchase.requested_amount", req.RequestedAmount.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String("purchase.status", resp.Status))
		}
		span.End()
	}()

	// 1. Validate request shape.
	if err := validateApply(req); err != nil {
		return dto.PurchaseDecisionResponse{}, err
	}
	now := uc.now()

	// 2. Create the pending application.
	app, err := model.NewPurchaseApplication(
		req.PersonalID, money.New(req.RequestedAmount, money.EUR), req.PaymentPeriodMonths, now,
	)
	if err != nil {
		return dto.PurchaseDecisionResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	// 3. Look up capacity unless the amount is denied outright.
	record := port.DecisionRecord{
		ApplicationID:   app.ID(),
		PersonalID:      req.PersonalID,
		RequestedAmount: req.RequestedAmount,
		RequestedPeriod: req.PaymentPeriodMonths,
	}
	var factor int
	if uc.engine.MeetsMinimum(req.RequestedAmount) {
		factor, err = uc.capacity.CapacityFactor(ctx, req.PersonalID)
		if err != nil {
			return dto.PurchaseDecisionResponse{}, fmt.Errorf("lookup capacity: %w", err)
		}
		record.CapacityFactor = factor
	} else {
		record.LookupSkipped = true
		uc.logger.DebugContext(ctx, "requested amount below minimum, skipping capacity lookup",
			"requested_amount", req.RequestedAmount.String(),
		)
	}

	// 4. Run the approval search.
	decision, err := uc.engine.Decide(factor, req.RequestedAmount, req.PaymentPeriodMonths)
	if err != nil {
		return dto.PurchaseDecisionResponse{}, fmt.Errorf("decide: %w", err)
	}

	// 5. Apply the decision.
	app, err = app.ApplyDecision(decision, now)
	if err != nil {
		return dto.PurchaseDecisionResponse{}, fmt.Errorf("apply decision: %w", err)
	}

	// 6. Persist.
	if err := uc.appRepo.Save(ctx, app); err != nil {
		return dto.PurchaseDecisionResponse{}, fmt.Errorf("save application: %w", err)
	}

	// 7. Publish domain events. The outbox written by Save covers delivery
	// when the broker is unavailable.
	if evts := app.DomainEvents(); len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			uc.logger.ErrorContext(ctx, "failed to publish domain events",
				"application_id", app.ID(),
				"event_count", len(evts),
				"error", err,
			)
		}
	}

	// 8. Journal the decision.
	if uc.recorder != nil {
		record.Status = decision.Status().String()
		record.ApprovedAmount = decision.ApprovedAmount()
		record.ApprovedPeriod = decision.Period()
		record.DecidedAt = now
		if err := uc.recorder.Record(ctx, record); err != nil {
			uc.logger.WarnContext(ctx, "failed to record decision",
				"application_id", app.ID(),
				"error", err,
			)
		}
	}

	uc.decisions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", decision.Status().String())))
	uc.logger.InfoContext(ctx, "purchase application decided",
		"application_id", app.ID(),
		"status", decision.Status().String(),
		"approved_amount", decision.ApprovedAmount().String(),
		"period", decision.Period(),
	)

	return dto.PurchaseDecisionResponse{
		ApplicationID:        app.ID(),
		Status:               decision.Status().String(),
		Approved:             decision.IsApproved(),
		ApprovedAmount:       decision.ApprovedAmount(),
		ApprovedPeriodMonths: decision.Period(),
	}, nil
}

func validateApply(req dto.ApplyForPurchaseRequest) error {
	switch {
	case strings.TrimSpace(req.PersonalID) == "":
		return fmt.Errorf("%w: personal ID is required", ErrInvalidRequest)
	case req.PaymentPeriodMonths <= 0:
		return fmt.Errorf("%w: payment period must be positive, got %d", ErrInvalidRequest, req.PaymentPeriodMonths)
	case req.RequestedAmount.IsNegative():
		return fmt.Errorf("%w: requested amount must not be negative", ErrInvalidRequest)
	}
	if err := model.CheckAmount(req.RequestedAmount); err != nil {
		return fmt.Errorf("%w: requested amount: %w", ErrInvalidRequest, err)
	}
	return nil
}
