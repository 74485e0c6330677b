// Package scheduler runs the periodic check of all tracked companies.
package scheduler

//go:generate moq -out mocks/checker.go -pkg mocks -skip-ensure -fmt goimports . Checker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/espiscope/pkg/domain"
	"github.com/umputun/espiscope/pkg/tracker"
)

// Checker lists tracked companies and checks one of them
type Checker interface {
	List(ctx context.Context) ([]domain.Company, error)
	Check(ctx context.Context, id string) (tracker.CheckResult, error)
}

// Config holds scheduler configuration
type Config struct {
	Interval   time.Duration
	MaxWorkers int
}

// Summary reports one cycle over all tracked companies
type Summary struct {
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration"`
	Companies int           `json:"companies"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	New       int           `json:"new"`
	Delivered int           `json:"delivered"`
}

// Scheduler checks all tracked companies on interval, the first cycle runs right after Start.
// A failure of one company is logged and never stops the cycle for others.
type Scheduler struct {
	checker    Checker
	interval   time.Duration
	maxWorkers int
	wg         sync.WaitGroup
	cancel     context.CancelFunc

	cycleMu sync.Mutex // one cycle at a time, ticker and CheckNow don't overlap

	mu   sync.Mutex
	last Summary
	runs int
}

// NewScheduler creates a new scheduler instance
func NewScheduler(checker Checker, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	return &Scheduler{checker: checker, interval: cfg.Interval, maxWorkers: cfg.MaxWorkers}
}

// Start begins the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.worker(ctx)
	lgr.Printf("[INFO] scheduler started with interval %v, %d workers", s.interval, s.maxWorkers)
}

// Stop gracefully stops the scheduler, waiting for the running cycle
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// CheckNow runs a cycle immediately and returns its summary
func (s *Scheduler) CheckNow(ctx context.Context) (Summary, error) {
	return s.cycle(ctx)
}

// LastRun returns summary of the last finished cycle and number of cycles run
func (s *Scheduler) LastRun() (Summary, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.runs
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// run immediately on start
	s.logCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.logCycle(ctx)
		}
	}
}

func (s *Scheduler) logCycle(ctx context.Context) {
	if _, err := s.cycle(ctx); err != nil && ctx.Err() == nil {
		lgr.Printf("[ERROR] check cycle failed: %v", err)
	}
}

// cycle checks all tracked companies with up to maxWorkers at once
func (s *Scheduler) cycle(ctx context.Context) (Summary, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	summary := Summary{Started: time.Now()}
	companies, err := s.checker.List(ctx)
	if err != nil {
		return summary, err
	}
	summary.Companies = len(companies)
	if len(companies) == 0 {
		lgr.Printf("[DEBUG] no tracked companies")
	}

	var mu sync.Mutex
	g := errgroup.Group{}
	g.SetLimit(s.maxWorkers)
	for _, c := range companies {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := s.checker.Check(ctx, c.ID)
			mu.Lock()
			defer mu.Unlock()
			summary.New += res.New
			summary.Delivered += res.Delivered
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrNotTracked):
				summary.Skipped++ // removed while the cycle was running
			default:
				summary.Failed++
				lgr.Printf("[WARN] %v", err)
			}
			return nil // errors are per company, never cancel the others
		})
	}
	_ = g.Wait()

	summary.Duration = time.Since(summary.Started)
	s.mu.Lock()
	s.last = summary
	s.runs++
	s.mu.Unlock()

	if summary.New > 0 || summary.Failed > 0 {
		lgr.Printf("[INFO] checked %d companies in %v: %d new, %d delivered, %d failed",
			summary.Companies, summary.Duration.Round(time.Millisecond), summary.New, summary.Delivered, summary.Failed)
	}
	return summary, ctx.Err()
}
