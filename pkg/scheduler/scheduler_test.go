package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/espiscope/pkg/diff"
	"github.com/umputun/espiscope/pkg/domain"
	"github.com/umputun/espiscope/pkg/notify"
	"github.com/umputun/espiscope/pkg/repository"
	"github.com/umputun/espiscope/pkg/scheduler/mocks"
	"github.com/umputun/espiscope/pkg/tracker"
	trackermocks "github.com/umputun/espiscope/pkg/tracker/mocks"
)

func companies(ids ...string) []domain.Company {
	res := make([]domain.Company, 0, len(ids))
	for _, id := range ids {
		res = append(res, domain.Company{ID: id, Name: "company " + id, SourceRef: "ref" + id})
	}
	return res
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(&mocks.CheckerMock{}, Config{})
	assert.Equal(t, 60*time.Second, s.interval)
	assert.Equal(t, 4, s.maxWorkers)

	s = NewScheduler(&mocks.CheckerMock{}, Config{Interval: time.Minute, MaxWorkers: 2})
	assert.Equal(t, time.Minute, s.interval)
	assert.Equal(t, 2, s.maxWorkers)
}

func TestScheduler_CheckNow_IsolatesFailures(t *testing.T) {
	checker := &mocks.CheckerMock{
		ListFunc: func(context.Context) ([]domain.Company, error) { return companies("1", "2", "3", "4"), nil },
		CheckFunc: func(_ context.Context, id string) (tracker.CheckResult, error) {
			switch id {
			case "1":
				return tracker.CheckResult{ID: id, New: 2, Delivered: 2}, nil
			case "2":
				return tracker.CheckResult{ID: id}, fmt.Errorf("check 2: %w", domain.ErrFetchFailed)
			case "3":
				return tracker.CheckResult{ID: id}, fmt.Errorf("check 3: %w", domain.ErrNotTracked)
			default:
				return tracker.CheckResult{ID: id, New: 3, Delivered: 1}, fmt.Errorf("notify: %w", domain.ErrDeliveryFailed)
			}
		},
	}
	s := NewScheduler(checker, Config{MaxWorkers: 2})

	summary, err := s.CheckNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Companies)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 5, summary.New)
	assert.Equal(t, 3, summary.Delivered)
	assert.Len(t, checker.CheckCalls(), 4, "every company checked despite failures")

	last, runs := s.LastRun()
	assert.Equal(t, summary, last)
	assert.Equal(t, 1, runs)
}

func TestScheduler_CheckNow_ListError(t *testing.T) {
	checker := &mocks.CheckerMock{ListFunc: func(context.Context) ([]domain.Company, error) {
		return nil, errors.New("store down")
	}}
	s := NewScheduler(checker, Config{})
	_, err := s.CheckNow(context.Background())
	require.EqualError(t, err, "store down")
	_, runs := s.LastRun()
	assert.Zero(t, runs)
}

func TestScheduler_WorkerLimit(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	checker := &mocks.CheckerMock{
		ListFunc: func(context.Context) ([]domain.Company, error) {
			return companies("1", "2", "3", "4", "5", "6", "7", "8"), nil
		},
		CheckFunc: func(_ context.Context, id string) (tracker.CheckResult, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				m := maxInFlight.Load()
				if n <= m || maxInFlight.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return tracker.CheckResult{ID: id}, nil
		},
	}
	s := NewScheduler(checker, Config{MaxWorkers: 3})
	_, err := s.CheckNow(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, maxInFlight.Load(), int32(3))
	assert.Len(t, checker.CheckCalls(), 8)
}

func TestScheduler_StartStop(t *testing.T) {
	var cycles atomic.Int32
	checker := &mocks.CheckerMock{
		ListFunc: func(context.Context) ([]domain.Company, error) {
			cycles.Add(1)
			return companies("1"), nil
		},
		CheckFunc: func(_ context.Context, id string) (tracker.CheckResult, error) {
			return tracker.CheckResult{ID: id}, nil
		},
	}
	s := NewScheduler(checker, Config{Interval: 20 * time.Millisecond})
	s.Start(context.Background())

	require.Eventually(t, func() bool { return cycles.Load() >= 1 }, time.Second, 5*time.Millisecond, "first cycle runs immediately")
	require.Eventually(t, func() bool { return cycles.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := cycles.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, cycles.Load(), "no cycles after stop")
}

func TestScheduler_CanceledContext(t *testing.T) {
	checker := &mocks.CheckerMock{
		ListFunc: func(context.Context) ([]domain.Company, error) { return companies("1", "2"), nil },
		CheckFunc: func(_ context.Context, id string) (tracker.CheckResult, error) {
			return tracker.CheckResult{ID: id}, nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewScheduler(checker, Config{}).CheckNow(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, checker.CheckCalls())
}

func TestScheduler_CheckNow_DamagedCompanyRow(t *testing.T) {
	ctx := context.Background()
	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })

	old := domain.Announcement{Date: "2024-05-09", Time: "08:00", Company: "ALPHA", Title: "Zbycie akcji", URL: "https://example.com/1"}
	fresh := domain.Announcement{Date: "2024-05-10", Time: "17:45", Company: "ALPHA", Title: "Raport okresowy", URL: "https://example.com/2"}
	var pageUpdated atomic.Bool
	fetcher := &trackermocks.FetcherMock{FetchFunc: func(_ context.Context, ref string) ([]domain.Announcement, error) {
		if ref == "ref1" && pageUpdated.Load() {
			return []domain.Announcement{fresh, old}, nil
		}
		return []domain.Announcement{old}, nil
	}}
	var sent atomic.Int32
	notifier := &trackermocks.NotifierMock{SendFunc: func(context.Context, notify.Message) (domain.MessageRef, error) {
		n := sent.Add(1)
		return domain.MessageRef{ID: domain.MessageID(fmt.Sprintf("m%d", n)), Content: "msg"}, nil
	}}
	registry := tracker.New(tracker.Params{Store: repos.Company, Fetcher: fetcher, Notifier: notifier, Policy: diff.FullRecord})

	for _, id := range []string{"1", "2"} {
		_, err := registry.Add(ctx, tracker.AddRequest{ID: id, Name: "company " + id, Emoji: "📈", SourceRef: "ref" + id})
		require.NoError(t, err)
	}
	_, err = repos.DB.Exec("UPDATE companies SET name = '' WHERE id = '2'")
	require.NoError(t, err)
	pageUpdated.Store(true)
	headers := sent.Load()

	s := NewScheduler(registry, Config{MaxWorkers: 2})
	summary, err := s.CheckNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Companies, "damaged company left out of the cycle")
	assert.Equal(t, 1, summary.New)
	assert.Equal(t, 1, summary.Delivered)
	assert.Equal(t, headers+1, sent.Load(), "healthy company notified")

	h, err := repos.Company.History(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, h, 2)
}
