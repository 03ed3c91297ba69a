package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/purchase-approval/internal/domain/model"
	"github.com/bibbank/purchase-approval/internal/domain/port"
	"github.com/bibbank/purchase-approval/internal/domain/valueobject"
	"github.com/bibbank/purchase-approval/pkg/events"
	"github.com/bibbank/purchase-approval/pkg/money"
	pkgpostgres "github.com/bibbank/purchase-approval/pkg/postgres"
)

// ErrVersionConflict is returned by Save when the stored row has moved on
// since the aggregate was loaded.
var ErrVersionConflict = errors.New("optimistic locking conflict on purchase application")

// PurchaseApplicationRepo implements port.PurchaseApplicationRepository.
type PurchaseApplicationRepo struct {
	pool *pgxpool.Pool
}

// NewPurchaseApplicationRepo creates a new repository backed by PostgreSQL.
func NewPurchaseApplicationRepo(pool *pgxpool.Pool) *PurchaseApplicationRepo {
	return &PurchaseApplicationRepo{pool: pool}
}

// Save upserts the application with optimistic locking and writes its domain
// events to the outbox in the same transaction.
func (r *PurchaseApplicationRepo) Save(ctx context.Context, app model.PurchaseApplication) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		const upsertSQL = `
			INSERT INTO purchase_applications (
				id, personal_id, requested_amount, currency, period_months,
				status, approved_amount, approved_period,
				version, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (id) DO UPDATE SET
				status          = EXCLUDED.status,
				approved_amount = EXCLUDED.approved_amount,
				approved_period = EXCLUDED.approved_period,
				version         = EXCLUDED.version,
				updated_at      = EXCLUDED.updated_at
			WHERE purchase_applications.version = EXCLUDED.version - 1
		`
		tag, err := tx.Exec(ctx, upsertSQL,
			app.ID(), app.PersonalID(),
			app.RequestedAmount().Amount(), app.RequestedAmount().Currency().Code(),
			app.PeriodMonths(), app.Status().String(),
			app.ApprovedAmount().Amount(), app.ApprovedPeriod(),
			app.Version(), app.CreatedAt(), app.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save purchase application: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: id=%s version=%d", ErrVersionConflict, app.ID(), app.Version())
		}

		return insertOutbox(ctx, tx, app.DomainEvents())
	})
}

func insertOutbox(ctx context.Context, q pkgpostgres.Querier, evts []events.DomainEvent) error {
	const insertOutboxSQL = `
		INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	for _, evt := range evts {
		entry, err := events.NewOutboxEntry(evt)
		if err != nil {
			return fmt.Errorf("build outbox entry: %w", err)
		}
		if _, err := q.Exec(ctx, insertOutboxSQL,
			entry.ID, entry.AggregateID, entry.AggregateType,
			entry.EventType, entry.Payload, entry.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}
	}
	return nil
}

// FindByID retrieves a single purchase application.
func (r *PurchaseApplicationRepo) FindByID(ctx context.Context, id string) (model.PurchaseApplication, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.PurchaseApplication{}, fmt.Errorf("%w: %s", port.ErrApplicationNotFound, id)
	}

	const query = `
		SELECT id, personal_id, requested_amount, currency, period_months,
		       status, approved_amount, approved_period,
		       version, created_at, updated_at
		FROM purchase_applications
		WHERE id = $1
	`
	app, err := scanApplication(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.PurchaseApplication{}, fmt.Errorf("%w: %s", port.ErrApplicationNotFound, id)
	}
	return app, err
}

// FindByPersonalID retrieves all applications for a customer, newest first.
func (r *PurchaseApplicationRepo) FindByPersonalID(ctx context.Context, personalID string) ([]model.PurchaseApplication, error) {
	const query = `
		SELECT id, personal_id, requested_amount, currency, period_months,
		       status, approved_amount, approved_period,
		       version, created_at, updated_at
		FROM purchase_applications
		WHERE personal_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, personalID)
	if err != nil {
		return nil, fmt.Errorf("query purchase applications: %w", err)
	}
	defer rows.Close()

	var result []model.PurchaseApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func scanApplication(s scannable) (model.PurchaseApplication, error) {
	var (
		id, personalID       string
		requestedAmount      decimal.Decimal
		currencyCode         string
		periodMonths         int
		statusStr            string
		approvedAmount       decimal.Decimal
		approvedPeriod       int
		version              int
		createdAt, updatedAt time.Time
	)

	err := s.Scan(
		&id, &personalID,
		&requestedAmount, &currencyCode, &periodMonths,
		&statusStr, &approvedAmount, &approvedPeriod,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PurchaseApplication{}, err
		}
		return model.PurchaseApplication{}, fmt.Errorf("scan purchase application: %w", err)
	}

	status, err := valueobject.NewApplicationStatus(statusStr)
	if err != nil {
		return model.PurchaseApplication{}, fmt.Errorf("parse status: %w", err)
	}
	currency, err := money.NewCurrency(currencyCode)
	if err != nil {
		return model.PurchaseApplication{}, fmt.Errorf("parse currency: %w", err)
	}

	return model.ReconstructPurchaseApplication(
		id, personalID,
		money.New(requestedAmount, currency), periodMonths,
		status,
		money.New(approvedAmount, currency), approvedPeriod,
		version, createdAt.UTC(), updatedAt.UTC(),
	), nil
}
