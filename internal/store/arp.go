package store

import (
	"context"
	"fmt"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// UpsertArpBatch upserts ArpEntry rows keyed by (node_id, ip_address,
// mac_address) (SPEC_FULL.md §4.2.4, §4.3).
func (s *Store) UpsertArpBatch(ctx context.Context, rows []model.ArpRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin arp batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO arp_table (node_id, ip_address, mac_address, source, first_seen, last_seen)
			VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (node_id, ip_address, mac_address) DO UPDATE SET
				last_seen = now()`,
			r.NodeID, r.IPAddress, r.MacAddress, r.Source,
		)
		if err != nil {
			return fmt.Errorf("store: upsert arp node=%d ip=%s: %w", r.NodeID, r.IPAddress, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit arp batch: %w", err)
	}
	return nil
}

// UpsertInterfaceIPBatch upserts InterfaceIP rows keyed by (node_id,
// if_index, ip_address). Rows with no known ifIndex are never
// constructed by the Arp handler, so every row here carries one.
func (s *Store) UpsertInterfaceIPBatch(ctx context.Context, rows []model.InterfaceIPRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin interface_ip batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO interface_ip (node_id, if_index, ip_address)
			VALUES ($1, $2, $3)
			ON CONFLICT (node_id, if_index, ip_address) DO NOTHING`,
			r.NodeID, r.IfIndex, r.IPAddress,
		)
		if err != nil {
			return fmt.Errorf("store: upsert interface_ip node=%d if_index=%d: %w", r.NodeID, r.IfIndex, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit interface_ip batch: %w", err)
	}
	return nil
}
