package store

import (
	"context"
	"fmt"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// UpsertInterfaceBatch upserts a chunk of InterfaceInventory rows
// keyed by (node_id, if_index). Each row is its own statement inside
// one transaction that commits once per call. The first row that fails
// returns its error and rolls back the whole chunk; the other rows of
// the chunk are not kept (SPEC_FULL.md §4.2.2, §4.3).
func (s *Store) UpsertInterfaceBatch(ctx context.Context, rows []model.InterfaceRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin interface batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO interface_inventory
				(node_id, if_index, if_name, if_descr, if_type, if_mtu, if_speed,
				 if_phys_address, if_admin_status, if_oper_status, if_last_change,
				 if_alias, first_seen, last_seen, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now(), 'ACTIVE')
			ON CONFLICT (node_id, if_index) DO UPDATE SET
				if_name         = COALESCE(EXCLUDED.if_name, interface_inventory.if_name),
				if_descr        = COALESCE(EXCLUDED.if_descr, interface_inventory.if_descr),
				if_type         = COALESCE(EXCLUDED.if_type, interface_inventory.if_type),
				if_mtu          = COALESCE(EXCLUDED.if_mtu, interface_inventory.if_mtu),
				if_speed        = COALESCE(EXCLUDED.if_speed, interface_inventory.if_speed),
				if_phys_address = COALESCE(EXCLUDED.if_phys_address, interface_inventory.if_phys_address),
				if_admin_status = COALESCE(EXCLUDED.if_admin_status, interface_inventory.if_admin_status),
				if_oper_status  = COALESCE(EXCLUDED.if_oper_status, interface_inventory.if_oper_status),
				if_last_change  = COALESCE(EXCLUDED.if_last_change, interface_inventory.if_last_change),
				if_alias        = COALESCE(EXCLUDED.if_alias, interface_inventory.if_alias),
				last_seen       = now(),
				status          = 'ACTIVE'`,
			r.NodeID, r.IfIndex, r.IfName, r.IfDescr, r.IfType, r.IfMTU, r.IfSpeed,
			r.IfPhysAddress, r.IfAdminStatus, r.IfOperStatus, r.IfLastChange, r.IfAlias,
		)
		if err != nil {
			return fmt.Errorf("store: upsert interface node=%d if_index=%d: %w", r.NodeID, r.IfIndex, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("store: commit interface batch: %w", err)
	}
	return nil
}
