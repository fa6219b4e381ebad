package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// ipNetToMedia OID prefixes (SPEC_FULL.md §4.2.4).
const (
	oidArpPhysAddress = "1.3.6.1.2.1.4.22.1.2"
	oidArpNetAddress  = "1.3.6.1.2.1.4.22.1.3"
)

type arpEntry struct {
	mac     string
	ifIndex int
	hasIf   bool
}

// Arp implements handler id 6: it joins ipNetToMediaPhysAddress and
// ipNetToMediaNetAddress walks into an ip→{mac, ifIndex} map, discards
// IPs with no observed MAC, and upserts both ArpEntry and (when the
// ifIndex is known) InterfaceIP (SPEC_FULL.md §4.2.4).
type Arp struct {
	Arps ArpUpserter
}

func (h *Arp) Name() string { return "Arp" }

func (h *Arp) ProcessRaw(ctx context.Context, node model.Node, request model.Request, journalID int64, raw []model.Result) model.Result {
	start := time.Now()

	byIP := mergeArpEntries(raw)
	now := time.Now()

	var arpRows []model.ArpRow
	var ifRows []model.InterfaceIPRow
	for ip, e := range byIP {
		if e.mac == "" {
			continue
		}
		arpRows = append(arpRows, model.ArpRow{
			NodeID:     node.ID,
			IPAddress:  ip,
			MacAddress: e.mac,
			Source:     "arp",
			FirstSeen:  now,
			LastSeen:   now,
		})
		if e.hasIf {
			ifRows = append(ifRows, model.InterfaceIPRow{
				NodeID:    node.ID,
				IfIndex:   e.ifIndex,
				IPAddress: ip,
			})
		}
	}

	if h.Arps != nil {
		if len(arpRows) > 0 {
			if err := h.Arps.UpsertArpBatch(ctx, arpRows); err != nil {
				return errorResult(node, request.ID, journalID, "error_arp_processing", err, start)
			}
		}
		if len(ifRows) > 0 {
			if err := h.Arps.UpsertInterfaceIPBatch(ctx, ifRows); err != nil {
				return errorResult(node, request.ID, journalID, "error_arp_processing", err, start)
			}
		}
	}

	summary, _ := json.Marshal(map[string]int{"arp_entries": len(arpRows)})
	return result(node, request.ID, journalID, "arp_processing", string(summary), start)
}

func mergeArpEntries(raw []model.Result) map[string]*arpEntry {
	byIP := make(map[string]*arpEntry)

	get := func(ip string) *arpEntry {
		e, ok := byIP[ip]
		if !ok {
			e = &arpEntry{}
			byIP[ip] = e
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

			var ip string
			var ifIndex int
			var hasIf, hasIP bool

			switch {
			case hasPrefix(oid, oidArpPhysAddress):
				ifIndex, hasIf, ip, hasIP = extractIfIndexAndIP(oid)
				if !hasIP {
					continue
				}
				entry := get(ip)
				if mac, ok := macFromValue(val); ok {
					entry.mac = mac
				}
				if hasIf && !entry.hasIf {
					entry.ifIndex, entry.hasIf = ifIndex, true
				}
			case hasPrefix(oid, oidArpNetAddress):
				ifIndex, hasIf, ip, hasIP = extractIfIndexAndIP(oid)
				if !hasIP {
					continue
				}
				entry := get(ip)
				if hasIf && !entry.hasIf {
					entry.ifIndex, entry.hasIf = ifIndex, true
				}
			}
		}
	}

	return byIP
}
