package store

import (
	"context"
	"fmt"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// NodesInGroup returns the managed nodes of a NodeGroup, ordered by
// id (SPEC_FULL.md §4.4 step 2).
func (s *Store) NodesInGroup(ctx context.Context, nodeGroupID int64) ([]model.Node, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT n.id, n.name, n.ipaddress, n.community, n.timeout,
		       COALESCE(n.sysname, ''), COALESCE(n.sysobjectid, '')
		FROM node n
		JOIN node_group_ref ref ON ref.node_id = n.id
		WHERE ref.group_id = $1 AND n.manage = true
		ORDER BY n.id`, nodeGroupID)
	if err != nil {
		return nil, fmt.Errorf("store: query nodes in group %d: %w", nodeGroupID, err)
	}
	defer rows.Close()

	var nodes []model.Node
	for rows.Next() {
		var n model.Node
		if err := rows.Scan(&n.ID, &n.Name, &n.IPv4, &n.Community, &n.TimeoutMS, &n.SysName, &n.SysObjectID); err != nil {
			return nil, fmt.Errorf("store: scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// RequestsInGroup returns the managed requests of a RequestGroup,
// ordered by id.
func (s *Store) RequestsInGroup(ctx context.Context, requestGroupID int64) ([]model.Request, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.name, r.request, rt.name
		FROM request r
		JOIN request_group_ref ref ON ref.request_id = r.id
		JOIN request_type rt ON rt.id = r.request_type_id
		WHERE ref.group_id = $1 AND r.manage = true
		ORDER BY r.id`, requestGroupID)
	if err != nil {
		return nil, fmt.Errorf("store: query requests in group %d: %w", requestGroupID, err)
	}
	defer rows.Close()

	var requests []model.Request
	for rows.Next() {
		var r model.Request
		var requestType string
		if err := rows.Scan(&r.ID, &r.Name, &r.OID, &requestType); err != nil {
			return nil, fmt.Errorf("store: scan request: %w", err)
		}
		r.Type = model.RequestType(requestType)
		r.Manage = true
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// UpdateNodeHealth writes sysName/sysObjectID back onto a node, the
// Health handler's only mutation of the Node entity.
func (s *Store) UpdateNodeHealth(ctx context.Context, nodeID int64, sysName, sysObjectID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE node SET sysname = $2, sysobjectid = $3, snmp_last_dt = now()
		WHERE id = $1`, nodeID, sysName, sysObjectID)
	if err != nil {
		return fmt.Errorf("store: update node health %d: %w", nodeID, err)
	}
	return nil
}

// UpdateNodeLastPolled sets snmp_last_dt when at least one request for
// the node succeeded this task (SPEC_FULL.md §4.4 step 5).
func (s *Store) UpdateNodeLastPolled(ctx context.Context, nodeID int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE node SET snmp_last_dt = now() WHERE id = $1`, nodeID)
	if err != nil {
		return fmt.Errorf("store: update node last polled %d: %w", nodeID, err)
	}
	return nil
}

// LookupElementBySNMPID resolves a bridge-port number to a logical
// interface row for the MAC Table handler (SPEC_FULL.md §4.2.3).
func (s *Store) LookupElementBySNMPID(ctx context.Context, nodeID int64, snmpID int) (int64, bool, error) {
	var elementID int64
	err := s.pool.QueryRow(ctx, `
		SELECT id FROM element
		WHERE node_id = $1 AND snmp_id = $2 AND manage = true AND deleted = false`,
		nodeID, snmpID,
	).Scan(&elementID)
	if err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("store: lookup element node=%d snmp_id=%d: %w", nodeID, snmpID, err)
	}
	return elementID, true, nil
}
