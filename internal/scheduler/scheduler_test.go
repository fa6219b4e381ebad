package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

type fakeStore struct {
	candidates []model.TaskContext
}

func (s *fakeStore) LoadActiveCandidates(ctx context.Context, thisAgent string) ([]model.TaskContext, error) {
	return s.candidates, nil
}

type fakeRunner struct {
	mu  sync.Mutex
	ran []int64
}

func (r *fakeRunner) Run(ctx context.Context, tc model.TaskContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ran = append(r.ran, tc.Cron.ID)
	return nil
}

func (r *fakeRunner) runCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ran)
}

func TestScheduler_DispatchesOnlyDueEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	dueSince := now.Add(-10 * time.Minute)
	notDueSince := now.Add(-1 * time.Minute)

	store := &fakeStore{candidates: []model.TaskContext{
		{Cron: model.CronEntry{ID: 1, Minutes: 5, LastDt: &dueSince}, Task: model.Task{ID: 1}},
		{Cron: model.CronEntry{ID: 2, Minutes: 5, LastDt: &notDueSince}, Task: model.Task{ID: 2}},
	}}
	runner := &fakeRunner{}

	sched := New(store, runner, "agent-1", time.Hour, 2, discardLogger())
	sched.nowFunc = func() time.Time { return now }

	sched.tick(context.Background())
	sched.wg.Wait()

	if runner.runCount() != 1 {
		t.Fatalf("expected exactly 1 dispatched run, got %d: %v", runner.runCount(), runner.ran)
	}
	if runner.ran[0] != 1 {
		t.Errorf("expected cron 1 to have run, got cron %d", runner.ran[0])
	}
}

func TestScheduler_RunStopsOnContextCancel(t *testing.T) {
	store := &fakeStore{}
	runner := &fakeRunner{}
	sched := New(store, runner, "agent-1", 10*time.Millisecond, 2, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected Run to return ctx.Err() on cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestScheduler_StopDrainsInFlightRuns(t *testing.T) {
	store := &fakeStore{}
	runner := &fakeRunner{}
	sched := New(store, runner, "agent-1", time.Hour, 1, discardLogger())

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	sched.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error on graceful Stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop()")
	}
}
