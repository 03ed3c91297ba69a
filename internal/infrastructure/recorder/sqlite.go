package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bibbank/purchase-approval/internal/domain/port"
)

// SQLiteRecorder journals every decision to a local SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
// Missing parent directories are created.
func NewSQLiteRecorder(dbPath string, logger *slog.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets audit queries read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("decision journal opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			application_id   TEXT    NOT NULL,
			personal_id      TEXT    NOT NULL,
			capacity_factor  INTEGER,
			requested_amount TEXT    NOT NULL,
			requested_period INTEGER NOT NULL,
			status           TEXT    NOT NULL,
			approved_amount  TEXT    NOT NULL,
			approved_period  INTEGER NOT NULL,
			decided_at       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_decided_at ON decisions(decided_at)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_personal_id ON decisions(personal_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Record appends one decision. A skipped lookup is stored as a NULL capacity factor.
func (r *SQLiteRecorder) Record(ctx context.Context, rec port.DecisionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var factor sql.NullInt64
	if !rec.LookupSkipped {
		factor = sql.NullInt64{Int64: int64(rec.CapacityFactor), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO decisions (
		application_id, personal_id, capacity_factor,
		requested_amount, requested_period,
		status, approved_amount, approved_period, decided_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ApplicationID, rec.PersonalID, factor,
		rec.RequestedAmount.String(), rec.RequestedPeriod,
		rec.Status, rec.ApprovedAmount.String(), rec.ApprovedPeriod,
		rec.DecidedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// Prune deletes decisions taken before the cutoff.
func (r *SQLiteRecorder) Prune(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `DELETE FROM decisions WHERE decided_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune decisions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune decisions: %w", err)
	}
	return n, nil
}

// Ping verifies the database is reachable, for readiness checks.
func (r *SQLiteRecorder) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
