package handlers

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// dot1dTpFdb OID prefixes (SPEC_FULL.md §4.2.3).
const (
	oidFdbAddress = "1.3.6.1.2.1.17.4.3.1.1"
	oidFdbPort    = "1.3.6.1.2.1.17.4.3.1.2"
	oidFdbStatus  = "1.3.6.1.2.1.17.4.3.1.3"
)

type fdbEntry struct {
	mac        string
	portNumber *int
	status     *int
}

// MacTable implements handler id 5: it parses the bridge forwarding
// database and resolves each bridge port to a logical interface via
// mon.element before upserting (SPEC_FULL.md §4.2.3).
type MacTable struct {
	Elements ElementLookup
	Macs     MacUpserter
}

func (h *MacTable) Name() string { return "MacTable" }

func (h *MacTable) ProcessRaw(ctx context.Context, node model.Node, request model.Request, journalID int64, raw []model.Result) model.Result {
	start := time.Now()

	rows, err := h.buildRows(ctx, node, raw)
	if err != nil {
		return errorResult(node, request.ID, journalID, "error_mac_table_processing", err, start)
	}

	if h.Macs != nil && len(rows) > 0 {
		if err := h.Macs.UpsertMacBatch(ctx, rows); err != nil {
			return errorResult(node, request.ID, journalID, "error_mac_table_processing", err, start)
		}
	}

	summary, _ := json.Marshal(map[string]int{"mac_entries": len(rows)})
	return result(node, request.ID, journalID, "mac_table_processing", string(summary), start)
}

func (h *MacTable) buildRows(ctx context.Context, node model.Node, raw []model.Result) ([]model.MacRow, error) {
	entries := mergeFdbEntries(raw)
	now := time.Now()

	rows := make([]model.MacRow, 0, len(entries))
	for _, e := range entries {
		row := model.MacRow{
			NodeID:     node.ID,
			MacAddress: e.mac,
			PortNumber: e.portNumber,
			Source:     "bridge_fdb",
			Status:     "ACTIVE",
			FirstSeen:  now,
			LastSeen:   now,
		}
		if e.status != nil {
			row.Status = statusString(*e.status)
		}
		if e.portNumber != nil && h.Elements != nil {
			elementID, found, err := h.Elements.LookupElementBySNMPID(ctx, node.ID, *e.portNumber)
			if err != nil {
				return nil, err
			}
			if found {
				row.InterfaceID = &elementID
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mergeFdbEntries aggregates Address/Port/Status contributions per
// MAC, accepting a MAC recovered from either the OID tail or the
// value text and merging non-null fields only.
func mergeFdbEntries(raw []model.Result) map[string]*fdbEntry {
	entries := make(map[string]*fdbEntry)

	get := func(mac string) *fdbEntry {
		e, ok := entries[mac]
		if !ok {
			e = &fdbEntry{mac: mac}
			entries[mac] = e
		}
		return e
	}

	for _, r := range raw {
		if r.Val == nil {
			continue
		}
		bindings, err := decodeBindings(*r.Val)
		if err != nil {
			continue
		}
		for _, b := range bindings {
			oid, val := b[0], b[1]

			mac, ok := macFromOIDTail(oid)
			if !ok {
				mac, ok = macFromValue(val)
			}
			if !ok {
				continue
			}
			entry := get(mac)

			switch {
			case hasPrefix(oid, oidFdbPort):
				if entry.portNumber == nil {
					if n, ok := firstInt(val); ok {
						entry.portNumber = &n
					}
				}
			case hasPrefix(oid, oidFdbStatus):
				if entry.status == nil {
					if n, ok := firstInt(val); ok {
						entry.status = &n
					}
				}
			case hasPrefix(oid, oidFdbAddress):
				// the address column only confirms the MAC already
				// recovered from either source above.
			}
		}
	}

	return entries
}

// statusString renders a raw dot1dTpFdbStatus integer as the ACTIVE
// sentinel for the common case (3 = learned) or the integer's string
// form otherwise (SPEC_FULL.md §4.2.3).
func statusString(status int) string {
	if status == 3 {
		return "ACTIVE"
	}
	return strconv.Itoa(status)
}
