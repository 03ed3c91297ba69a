package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bibbank/purchase-approval/internal/domain/port"
	pkgpostgres "github.com/bibbank/purchase-approval/pkg/postgres"
)

// FinancialProfileRepo resolves capacity factors from the financial_profiles
// table. It implements port.CapacityLookup.
type FinancialProfileRepo struct {
	db pkgpostgres.Querier
}

// NewFinancialProfileRepo accepts a pool or a transaction.
func NewFinancialProfileRepo(db pkgpostgres.Querier) *FinancialProfileRepo {
	return &FinancialProfileRepo{db: db}
}

// CapacityFactor returns the stored factor, or port.ErrUnknownCustomer.
func (r *FinancialProfileRepo) CapacityFactor(ctx context.Context, personalID string) (int, error) {
	const query = `SELECT capacity_factor FROM financial_profiles WHERE personal_id = $1`

	var factor int
	if err := r.db.QueryRow(ctx, query, personalID).Scan(&factor); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", port.ErrUnknownCustomer, personalID)
		}
		return 0, fmt.Errorf("query capacity factor: %w", err)
	}
	return factor, nil
}

// Upsert stores the factor for a customer. Updates older than the stored
// row are ignored so that out-of-order deliveries cannot roll a profile back.
func (r *FinancialProfileRepo) Upsert(ctx context.Context, personalID string, factor int, updatedAt time.Time) error {
	const upsertSQL = `
		INSERT INTO financial_profiles (personal_id, capacity_factor, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (personal_id) DO UPDATE SET
			capacity_factor = EXCLUDED.capacity_factor,
			updated_at      = EXCLUDED.updated_at
		WHERE financial_profiles.updated_at <= EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, upsertSQL, personalID, factor, updatedAt); err != nil {
		return fmt.Errorf("upsert financial profile: %w", err)
	}
	return nil
}
