package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// InsertResult writes a placeholder row before the SNMP call is
// issued, so the attempt is visible even if the agent crashes mid
// request (SPEC_FULL.md §4.3, design notes). val and err are expected
// nil on the placeholder.
func (s *Store) InsertResult(ctx context.Context, r model.Result) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO result (node_id, request_id, journal_id, val, key, duration, err, dt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id`,
		r.NodeID, r.RequestID, r.JournalID, r.Val, r.Key, r.DurationMS, r.Err,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("store: insert result placeholder: %w", err)
	}
	return id, nil
}

// UpdateResult fills in a placeholder's final val/err/duration, but
// only when the row is still untouched (val IS NULL AND err IS NULL).
// This is the guard the Design Notes call out by name: a later raw
// write must never clobber an already-recorded truthful error.
func (s *Store) UpdateResult(ctx context.Context, resultID int64, val *string, durationMS int64, errText *string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE result SET val = $2, duration = $3, err = $4, dt = now()
		WHERE id = $1 AND val IS NULL AND err IS NULL`,
		resultID, val, durationMS, errText)
	if err != nil {
		return fmt.Errorf("store: update result %d: %w", resultID, err)
	}
	return nil
}

// BatchInsertResults bulk-appends finished Result rows whose value is
// already known. The task runner uses it for Phase 2's processed
// summaries; Phase 1's raw captures go through InsertResult and
// UpdateResult instead (SPEC_FULL.md §4.3, §4.4).
func (s *Store) BatchInsertResults(ctx context.Context, rows []model.Result) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO result (node_id, request_id, journal_id, val, key, duration, err, dt)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
			r.NodeID, r.RequestID, r.JournalID, r.Val, r.Key, r.DurationMS, r.Err)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("store: batch insert results: %w", err)
		}
	}
	return nil
}
