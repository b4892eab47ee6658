// Package maintenance runs periodic retention sweeps so stale completed
// tasks disappear even when nobody is reading their lists.
package maintenance

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweepable is the slice of the task repository the sweeper needs.
type Sweepable interface {
	SweepAll(ctx context.Context) error
}

// Sweeper triggers SweepAll on a cron schedule. Sweep failures are logged,
// never fatal.
type Sweeper struct {
	repo Sweepable
	cron *CronExpr
	now  func() time.Time

	mu      sync.Mutex
	lastRun time.Time
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSweeper creates a Sweeper from a cron expression.
func NewSweeper(repo Sweepable, cronExpr string) (*Sweeper, error) {
	expr, err := ParseCron(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Sweeper{
		repo: repo,
		cron: expr,
		now:  time.Now,
		done: make(chan struct{}),
	}, nil
}

// Start launches the tick loop.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.loop()
	slog.Info("retention sweeper started", "schedule", s.cron.String())
}

// Stop terminates the tick loop and waits for it to exit.
func (s *Sweeper) Stop() {
	close(s.done)
	s.wg.Wait()
	slog.Info("retention sweeper stopped")
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

// tick runs a sweep when the current minute matches the schedule and the
// sweep has not already run this minute.
func (s *Sweeper) tick(now time.Time) {
	if !s.cron.Matches(now) {
		return
	}

	s.mu.Lock()
	if s.lastRun.Truncate(time.Minute).Equal(now.Truncate(time.Minute)) {
		s.mu.Unlock()
		return
	}
	s.lastRun = now
	s.mu.Unlock()

	s.run()
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.repo.SweepAll(ctx); err != nil {
		slog.Warn("scheduled retention sweep failed", "error", err)
		return
	}
	slog.Debug("scheduled retention sweep complete")
}
