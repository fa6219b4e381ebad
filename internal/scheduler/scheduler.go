// Package scheduler ticks on a fixed interval, asks the store for the
// agent's ACTIVE cron candidates, evaluates each against IsDue, and
// dispatches due ones to the Task Runner under a bounded worker pool
// (SPEC_FULL.md §4.5).
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// Scheduler owns the tick loop. It is built once at startup and run
// for the lifetime of the process, the teacher's testloop.Run(ctx)
// shape adapted to cron evaluation instead of round-robin site checks.
type Scheduler struct {
	store      Store
	runner     TaskRunner
	agent      string
	interval   time.Duration
	pool       *pool
	logger     *slog.Logger
	stopChan   chan struct{}
	wg         sync.WaitGroup
	nowFunc    func() time.Time
}

// New builds a Scheduler. agent scopes which cron rows this process
// evaluates (SPEC_FULL.md §4.5 step 1); interval is SCHEDULER_INTERVAL;
// maxWorkers is MAX_WORKERS.
func New(store Store, runner TaskRunner, agent string, interval time.Duration, maxWorkers int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:    store,
		runner:   runner,
		agent:    agent,
		interval: interval,
		pool:     newPool(maxWorkers),
		logger:   logger,
		stopChan: make(chan struct{}),
		nowFunc:  time.Now,
	}
}

// Run ticks every interval, evaluating and dispatching due cron
// entries, until ctx is cancelled or Stop is called. It returns once
// every in-flight task run has completed.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler starting", "interval", s.interval, "agent", s.agent)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping: context cancelled")
			s.wg.Wait()
			return ctx.Err()

		case <-s.stopChan:
			s.logger.Info("scheduler stopping: Stop() called")
			s.wg.Wait()
			return nil

		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Stop requests a graceful shutdown; Run returns once in-flight task
// runs have drained.
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

// tick evaluates every ACTIVE cron candidate once and dispatches the
// due ones under the bounded pool.
func (s *Scheduler) tick(ctx context.Context) {
	candidates, err := s.store.LoadActiveCandidates(ctx, s.agent)
	if err != nil {
		s.logger.Error("load active cron candidates failed", "error", err)
		return
	}

	now := s.nowFunc()
	for _, tc := range candidates {
		if !IsDue(tc.Cron, now) {
			continue
		}
		s.dispatch(ctx, tc)
	}
}

// dispatch runs one due task under the worker pool, blocking only on
// acquiring a slot — the run itself happens on its own goroutine so a
// slow node doesn't stall evaluation of the rest of the tick.
func (s *Scheduler) dispatch(ctx context.Context, tc model.TaskContext) {
	s.pool.acquire()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.pool.release()

		log := s.logger.With("cron_id", tc.Cron.ID, "task_id", tc.Task.ID)
		log.Info("dispatching due task")
		if err := s.runner.Run(ctx, tc); err != nil {
			log.Error("task run failed", "error", err)
		}
	}()
}
