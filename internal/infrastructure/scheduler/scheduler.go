package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bibbank/purchase-approval/internal/domain/port"
)

// Job is one unit of background work. The context is cancelled on Stop.
type Job func(ctx context.Context) error

// Scheduler runs maintenance jobs on cron schedules with a seconds field.
// A job still running when its next tick arrives is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds a named job on the given schedule.
func (s *Scheduler) Register(name, spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("register %s task: %w", name, err)
	}
	s.logger.Info("scheduled task registered", "task", name, "schedule", spec)
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	start := time.Now()
	if err := job(s.ctx); err != nil {
		s.logger.Error("scheduled task failed", "task", name, "error", err)
		return
	}
	s.logger.Debug("scheduled task finished", "task", name, "duration", time.Since(start))
}

// Start starts the cron scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "tasks", len(s.cron.Entries()))
}

// Stop cancels running jobs and waits for them to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// PruneJournal deletes journal rows older than the retention window.
func PruneJournal(rec port.DecisionRecorder, retentionDays int, logger *slog.Logger) Job {
	return func(ctx context.Context) error {
		cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
		n, err := rec.Prune(ctx, cutoff)
		if err != nil {
			return err
		}
		logger.Info("decision journal pruned", "removed", n, "cutoff", cutoff)
		return nil
	}
}

// Relayer is satisfied by *outbox.Relay.
type Relayer interface {
	Run(ctx context.Context) (int, error)
}

// RelayOutbox runs one outbox relay pass.
func RelayOutbox(r Relayer) Job {
	return func(ctx context.Context) error {
		_, err := r.Run(ctx)
		return err
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
