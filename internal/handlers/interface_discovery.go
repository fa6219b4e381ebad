package handlers

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// ifTable/ifXTable OID prefixes, per the field table of SPEC_FULL.md
// §4.2.2.
const (
	oidIfIndex        = "1.3.6.1.2.1.2.2.1.1"
	oidIfDescr        = "1.3.6.1.2.1.2.2.1.2"
	oidIfType         = "1.3.6.1.2.1.2.2.1.3"
	oidIfMtu          = "1.3.6.1.2.1.2.2.1.4"
	oidIfSpeed        = "1.3.6.1.2.1.2.2.1.5"
	oidIfPhysAddress  = "1.3.6.1.2.1.2.2.1.6"
	oidIfAdminStatus  = "1.3.6.1.2.1.2.2.1.7"
	oidIfOperStatus   = "1.3.6.1.2.1.2.2.1.8"
	oidIfLastChange   = "1.3.6.1.2.1.2.2.1.9"
	oidIfXName        = "1.3.6.1.2.1.31.1.1.1.1"
	oidIfAlias        = "1.3.6.1.2.1.31.1.1.1.18"
)

const batchSize = 100

// InterfaceDiscovery implements handler id 4: it merges ifTable and
// ifXTable WALK results into one InterfaceInventory row per ifIndex
// and upserts them in batches (SPEC_FULL.md §4.2.2).
type InterfaceDiscovery struct {
	Interfaces InterfaceUpserter
}

func (h *InterfaceDiscovery) Name() string { return "InterfaceDiscovery" }

func (h *InterfaceDiscovery) ProcessRaw(ctx context.Context, node model.Node, request model.Request, journalID int64, raw []model.Result) model.Result {
	start := time.Now()

	rows := mergeInterfaceRows(node.ID, raw)
	ordered := make([]model.InterfaceRow, 0, len(rows))
	for _, r := range rows {
		ordered = append(ordered, *r)
	}

	if h.Interfaces != nil {
		for i := 0; i < len(ordered); i += batchSize {
			end := i + batchSize
			if end > len(ordered) {
				end = len(ordered)
			}
			if err := h.Interfaces.UpsertInterfaceBatch(ctx, ordered[i:end]); err != nil {
				return errorResult(node, request.ID, journalID, "error_interface_processing", err, start)
			}
		}
	}

	summary, _ := json.Marshal(map[string]int{"interfaces": len(ordered)})
	return result(node, request.ID, journalID, "interface_processing", string(summary), start)
}

// mergeInterfaceRows folds every raw record's bindings into one row
// per ifIndex, never letting a later nil overwrite an earlier value.
func mergeInterfaceRows(nodeID int64, raw []model.Result) map[int]*model.InterfaceRow {
	now := time.Now()
	rows := make(map[int]*model.InterfaceRow)

	get := func(ifIndex int) *model.InterfaceRow {
		r, ok := rows[ifIndex]
		if !ok {
			r = &model.InterfaceRow{
				NodeID:    nodeID,
				IfIndex:   ifIndex,
				FirstSeen: now,
				LastSeen:  now,
				Status:    "ACTIVE",
			}
			rows[ifIndex] = r
		}
		return r
	}

	for _, raw := range raw {
		if raw.Val == nil {
			continue
		}
		bindings, err := decodeBindings(*raw.Val)
		if err != nil {
			continue
		}
		for _, b := range bindings {
			oid, val := b[0], b[1]
			ifIndex, ok := trailingIntComponent(oid)
			if !ok {
				continue
			}
			row := get(ifIndex)
			applyInterfaceField(row, oid, val)
		}
	}

	return rows
}

func applyInterfaceField(row *model.InterfaceRow, oid, val string) {
	switch {
	case hasPrefix(oid, oidIfDescr), hasPrefix(oid, oidIfXName):
		if row.IfName == nil {
			v := val
			row.IfName = &v
		}
		if row.IfDescr == nil {
			v := val
			row.IfDescr = &v
		}
	case hasPrefix(oid, oidIfType):
		setIntField(&row.IfType, val)
	case hasPrefix(oid, oidIfMtu):
		setIntField(&row.IfMTU, val)
	case hasPrefix(oid, oidIfSpeed):
		setInt64Field(&row.IfSpeed, val)
	case hasPrefix(oid, oidIfPhysAddress):
		if row.IfPhysAddress == nil {
			v := val
			row.IfPhysAddress = &v
		}
	case hasPrefix(oid, oidIfAdminStatus):
		setIntField(&row.IfAdminStatus, val)
	case hasPrefix(oid, oidIfOperStatus):
		setIntField(&row.IfOperStatus, val)
	case hasPrefix(oid, oidIfLastChange):
		setInt64Field(&row.IfLastChange, val)
	case hasPrefix(oid, oidIfAlias):
		if row.IfAlias == nil {
			v := val
			row.IfAlias = &v
		}
	case hasPrefix(oid, oidIfIndex):
		// informational only; ifIndex already came from the OID tail.
	}
}

func setIntField(field **int, val string) {
	if *field != nil {
		return
	}
	n, ok := firstInt(val)
	if !ok {
		return
	}
	*field = &n
}

func setInt64Field(field **int64, val string) {
	if *field != nil {
		return
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		if asInt, ok := firstInt(val); ok {
			n = int64(asInt)
		} else {
			return
		}
	}
	*field = &n
}
