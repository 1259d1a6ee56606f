package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"github.com/dmitrijs2005/gophreveal/internal/logging"
)

// Expirer removes pending requests whose deadline has passed.
type Expirer interface {
	ExpirePendingRequests(ctx context.Context, now time.Time) (int, error)
}

// Sweeper runs an Expirer on a cron schedule.
type Sweeper struct {
	expirer  Expirer
	schedule string
	logger   logging.Logger
	now      func() time.Time
	after    func(time.Duration) <-chan time.Time
}

// NewSweeper validates schedule, a five-field cron expression or a macro
// such as "@hourly".
func NewSweeper(e Expirer, schedule string, logger logging.Logger) (*Sweeper, error) {
	if !gronx.IsValid(schedule) {
		return nil, fmt.Errorf("invalid expiry schedule: %q", schedule)
	}
	return &Sweeper{
		expirer:  e,
		schedule: schedule,
		logger:   logger.With("module", "sweeper"),
		now:      time.Now,
		after:    time.After,
	}, nil
}

// Next returns the first tick strictly after now.
func (s *Sweeper) Next(now time.Time) (time.Time, error) {
	return gronx.NextTickAfter(s.schedule, now, false)
}

// Run sweeps at every tick until ctx is done. Sweep errors are logged and
// do not stop the loop.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info(ctx, "expiry sweeper started", "schedule", s.schedule)
	for {
		now := s.now().UTC()
		next, err := s.Next(now)
		if err != nil {
			return fmt.Errorf("next tick: %w", err)
		}

		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "expiry sweeper stopping")
			return nil
		case <-s.after(next.Sub(now)):
		}

		if _, err := s.expirer.ExpirePendingRequests(ctx, s.now()); err != nil {
			s.logger.Error(ctx, "expiry sweep failed", "error", err)
		}
	}
}
