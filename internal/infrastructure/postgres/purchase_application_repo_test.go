package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/purchase-approval/internal/domain/valueobject"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *decimal.Decimal:
			*d = v.(decimal.Decimal)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func applicationRow(status, currency string) fakeRow {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	return fakeRow{values: []any{
		"5b0d6f3e-1c2a-4f1e-9a63-0f4b9b1e2c11", "12345678912",
		decimal.NewFromInt(1000), currency, 12,
		status, decimal.NewFromInt(1100), 12,
		2, created, created,
	}}
}

func TestNewPurchaseApplicationRepo(t *testing.T) {
	repo := NewPurchaseApplicationRepo(nil)
	assert.NotNil(t, repo)
	assert.Nil(t, repo.pool)
}

func TestScanApplication(t *testing.T) {
	t.Run("reconstructs the aggregate", func(t *testing.T) {
		app, err := scanApplication(applicationRow("APPROVED", "EUR"))
		require.NoError(t, err)

		assert.Equal(t, "5b0d6f3e-1c2a-4f1e-9a63-0f4b9b1e2c11", app.ID())
		assert.Equal(t, "12345678912", app.PersonalID())
		assert.True(t, app.RequestedAmount().Amount().Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, "EUR", app.RequestedAmount().Currency().Code())
		assert.Equal(t, valueobject.ApplicationStatusApproved, app.Status())
		assert.True(t, app.ApprovedAmount().Amount().Equal(decimal.NewFromInt(1100)))
		assert.Equal(t, 12, app.ApprovedPeriod())
		assert.Equal(t, 2, app.Version())
		assert.Equal(t, time.UTC, app.CreatedAt().Location())
		assert.Empty(t, app.DomainEvents())
	})

	t.Run("no rows passes through unwrapped", func(t *testing.T) {
		_, err := scanApplication(fakeRow{err: pgx.ErrNoRows})
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := scanApplication(applicationRow("ON_HOLD", "EUR"))
		assert.ErrorContains(t, err, "parse status")
	})

	t.Run("bad currency", func(t *testing.T) {
		_, err := scanApplication(applicationRow("DENIED", "eu"))
		assert.ErrorContains(t, err, "parse currency")
	})
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := Migrations.ReadDir(MigrationsDir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_create_purchase_applications.up.sql")
	assert.Contains(t, names, "000002_create_outbox.up.sql")
	assert.Contains(t, names, "000003_create_financial_profiles.up.sql")
	assert.Contains(t, names, "000004_relax_capacity_factor_check.up.sql")
	assert.Len(t, names, 8)
}
