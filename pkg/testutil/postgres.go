package testutil

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pkgpostgres "github.com/bibbank/purchase-approval/pkg/postgres"
)

// Postgres is a running PostgreSQL container with an open pool.
type Postgres struct {
	DSN  string
	Pool *pgxpool.Pool
}

// StartPostgres runs PostgreSQL 16 and, when migrations is non-nil, applies
// the files under dir with golang-migrate before returning.
func StartPostgres(ctx context.Context, t *testing.T, migrations fs.FS, dir string) *Postgres {
	t.Helper()

	c, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("purchase_test"),
		postgres.WithUsername("approval"),
		postgres.WithPassword("approval"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	terminateOnCleanup(t, "postgres", c)

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	if migrations != nil {
		if err := pkgpostgres.RunMigrations(dsn, migrations, dir); err != nil {
			t.Fatalf("run migrations: %v", err)
		}
	}

	pool, err := pkgpostgres.NewPool(ctx, dsn, 4, 0)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &Postgres{DSN: dsn, Pool: pool}
}
