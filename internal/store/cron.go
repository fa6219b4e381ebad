package store

import (
	"context"
	"fmt"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// LoadActiveCandidates returns every cron entry eligible for this
// agent to evaluate — status ACTIVE, scoped to thisAgent (or NULL /
// 'ANY'), joined to a manage=true RequestGroup (SPEC_FULL.md §4.5
// step 1). isDue is evaluated by the caller, not here.
func (s *Store) LoadActiveCandidates(ctx context.Context, thisAgent string) ([]model.TaskContext, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.task_id, c.agent, c.days, c.hours, c.minutes,
		       c.startdt, c.lastdt, c.status, c.j_id,
		       t.node_group_id, t.request_group_id, rg.handler_id
		FROM crontab c
		JOIN task t ON t.id = c.task_id AND t.manage = true
		JOIN request_group rg ON rg.id = t.request_group_id AND rg.manage = true
		WHERE c.status = 'ACTIVE'
		  AND (c.agent IS NULL OR c.agent = $1 OR c.agent = 'ANY')`,
		thisAgent)
	if err != nil {
		return nil, fmt.Errorf("store: load active cron candidates: %w", err)
	}
	defer rows.Close()

	var out []model.TaskContext
	for rows.Next() {
		var tc model.TaskContext
		var status string
		if err := rows.Scan(
			&tc.Cron.ID, &tc.Cron.TaskID, &tc.Cron.Agent,
			&tc.Cron.Days, &tc.Cron.Hours, &tc.Cron.Minutes,
			&tc.Cron.StartDt, &tc.Cron.LastDt, &status, &tc.Cron.JID,
			&tc.NodeGroupID, &tc.RequestGroupID, &tc.HandlerID,
		); err != nil {
			return nil, fmt.Errorf("store: scan cron candidate: %w", err)
		}
		tc.Cron.Status = model.CronStatus(status)
		tc.Task = model.Task{ID: tc.Cron.TaskID, NodeGroupID: tc.NodeGroupID, RequestGroupID: tc.RequestGroupID, Manage: true}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// MarkRunning transitions a cron row ACTIVE→RUNNING. The row's own
// status doubles as the cross-tick mutex (SPEC_FULL.md design notes).
func (s *Store) MarkRunning(ctx context.Context, cronID int64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE crontab SET status = 'RUNNING' WHERE id = $1 AND status = 'ACTIVE'`, cronID)
	if err != nil {
		return fmt.Errorf("store: mark cron %d running: %w", cronID, err)
	}
	return nil
}

// MarkActive transitions a cron row back RUNNING→ACTIVE, recording the
// journal id of the run that just completed and lastDt as now.
func (s *Store) MarkActive(ctx context.Context, cronID, journalID int64, now time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE crontab SET status = 'ACTIVE', lastdt = $2, j_id = $3 WHERE id = $1`,
		cronID, now, journalID)
	if err != nil {
		return fmt.Errorf("store: mark cron %d active: %w", cronID, err)
	}
	return nil
}
