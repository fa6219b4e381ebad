package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

const (
	oidSysObjectID = "1.3.6.1.2.1.1.2"
	oidSysUpTime   = "1.3.6.1.2.1.1.3"
	oidSysName     = "1.3.6.1.2.1.1.5"
)

// Health scans the raw rows captured for a node's system-group GET
// requests and writes sysName/sysObjectID back onto the Node
// (SPEC_FULL.md §4.2.1).
type Health struct {
	Nodes NodeUpdater
}

func (h *Health) Name() string { return "Health" }

func (h *Health) ProcessRaw(ctx context.Context, node model.Node, request model.Request, journalID int64, raw []model.Result) model.Result {
	start := time.Now()

	var sysName, sysObjectID, sysUpTime string
	for _, r := range raw {
		if r.Val == nil {
			continue
		}
		bindings, err := decodeBindings(*r.Val)
		if err != nil {
			// Health's raw rows may also be single scalar GETs rather
			// than a bindings list; fall back to matching on Key.
			switch {
			case hasKeySuffix(r.Key, "sysName"):
				sysName = *r.Val
			case hasKeySuffix(r.Key, "sysObjectID"), hasKeySuffix(r.Key, "sysObjectId"):
				sysObjectID = *r.Val
			case hasKeySuffix(r.Key, "sysUpTime"):
				sysUpTime = *r.Val
			}
			continue
		}
		for _, b := range bindings {
			switch {
			case hasPrefix(b[0], oidSysName):
				sysName = b[1]
			case hasPrefix(b[0], oidSysObjectID):
				sysObjectID = b[1]
			case hasPrefix(b[0], oidSysUpTime):
				sysUpTime = b[1]
			}
		}
	}

	if h.Nodes != nil && (sysName != "" || sysObjectID != "") {
		if err := h.Nodes.UpdateNodeHealth(ctx, node.ID, sysName, sysObjectID); err != nil {
			return errorResult(node, request.ID, journalID, "error_health", err, start)
		}
	}

	summary, _ := json.Marshal(map[string]string{
		"sysname":     sysName,
		"sysobjectid": sysObjectID,
		"sysuptime":   sysUpTime,
	})

	return result(node, request.ID, journalID, "health_info", string(summary), start)
}

func hasKeySuffix(key, suffix string) bool {
	if len(key) < len(suffix) {
		return false
	}
	return key[len(key)-len(suffix):] == suffix
}
