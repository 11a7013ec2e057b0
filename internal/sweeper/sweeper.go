package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/blog-api/internal/metrics"
	"github.com/robfig/cron/v3"
)

type codeStore interface {
	ClearExpiredCodes(ctx context.Context, now time.Time) (int, error)
}

// Sweeper clears verification and forgot-password codes whose expiry has
// passed. Expired codes are already rejected on read, so sweeping only keeps
// the table tidy.
type Sweeper struct {
	store    codeStore
	logger   *slog.Logger
	schedule cron.Schedule
	expr     string
	now      func() time.Time
}

// New accepts a standard cron expression or a descriptor such as "@every 1m".
func New(store codeStore, logger *slog.Logger, expr string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", expr, err)
	}
	return &Sweeper{
		store:    store,
		logger:   logger.With("component", "sweeper"),
		schedule: schedule,
		expr:     expr,
		now:      time.Now,
	}, nil
}

// Start blocks until ctx is cancelled and any running sweep has finished.
func (s *Sweeper) Start(ctx context.Context) {
	cl := cronLogger{s.logger}
	c := cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	c.Schedule(s.schedule, cron.FuncJob(func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("sweep", "error", err)
		}
	}))

	s.logger.Info("sweeper started", "schedule", s.expr)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("sweeper shut down")
}

// Sweep runs one cycle and returns how many users had a code cleared.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	cleared, err := s.store.ClearExpiredCodes(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("clear expired codes: %w", err)
	}
	if cleared > 0 {
		metrics.SweptCodesTotal.Add(float64(cleared))
		s.logger.Info("cleared expired codes", "users", cleared)
	}
	return cleared, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
