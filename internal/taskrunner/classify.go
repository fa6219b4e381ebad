package taskrunner

import "strings"

// knownWalkSubtrees are the OID roots the Task Runner recognizes as
// WALK-shaped requests: ifTable, ifXTable, the ARP/IP-address table,
// and the dot1d bridge FDB (SPEC_FULL.md §4.4 step 3).
var knownWalkSubtrees = []string{
	"1.3.6.1.2.1.2.2.1",   // ifTable
	"1.3.6.1.2.1.31.1.1",  // ifXTable
	"1.3.6.1.2.1.4.22.1",  // ipNetToMedia (ARP / IP address table)
	"1.3.6.1.2.1.17.4.3.1", // dot1dTpFdb
}

// isWalkOID reports whether oid falls under one of the known WALK
// subtrees; every other OID is issued as a single GET.
func isWalkOID(oid string) bool {
	trimmed := strings.TrimPrefix(oid, ".")
	for _, prefix := range knownWalkSubtrees {
		if trimmed == prefix || strings.HasPrefix(trimmed, prefix+".") {
			return true
		}
	}
	return false
}
