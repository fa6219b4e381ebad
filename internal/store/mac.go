package store

import (
	"context"
	"fmt"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// UpsertMacBatch upserts MacEntry rows keyed by (node_id,
// mac_address), each row its own statement inside one transaction
// (SPEC_FULL.md §4.2.3, §4.3).
func (s *Store) UpsertMacBatch(ctx context.Context, rows []model.MacRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin mac batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO mac_addresses
				(node_id, mac_address, interface_id, port_number, source, status, first_seen, last_seen)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			ON CONFLICT (node_id, mac_address) DO UPDATE SET
				interface_id = COALESCE(EXCLUDED.interface_id, mac_addresses.interface_id),
				port_number  = COALESCE(EXCLUDED.port_number, mac_addresses.port_number),
				status       = EXCLUDED.status,
				last_seen    = now()`,
			r.NodeID, r.MacAddress, r.InterfaceID, r.PortNumber, r.Source, r.Status,
		)
		if err != nil {
			return fmt.Errorf("store: upsert mac node=%d mac=%s: %w", r.NodeID, r.MacAddress, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit mac batch: %w", err)
	}
	return nil
}
