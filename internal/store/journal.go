package store

import (
	"context"
	"fmt"
)

// OpenJournal inserts a new journal row for taskID and returns its id.
func (s *Store) OpenJournal(ctx context.Context, taskID int64) (int64, error) {
	var journalID int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO journal (task_id, startdt) VALUES ($1, now())
		RETURNING id`, taskID,
	).Scan(&journalID)
	if err != nil {
		return 0, fmt.Errorf("store: open journal for task %d: %w", taskID, err)
	}
	return journalID, nil
}

// CloseJournal writes endDt on journalID.
func (s *Store) CloseJournal(ctx context.Context, journalID int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE journal SET enddt = now() WHERE id = $1`, journalID)
	if err != nil {
		return fmt.Errorf("store: close journal %d: %w", journalID, err)
	}
	return nil
}
