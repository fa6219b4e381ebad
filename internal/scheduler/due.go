package scheduler

import (
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

// IsDue evaluates one CronEntry against now using the reference-time
// and mod-1-guard algorithm of SPEC_FULL.md §4.5. It is a pure
// function of (entry, now) and is idempotent within a tick by
// construction — calling it twice with the same inputs always returns
// the same bool.
func IsDue(entry model.CronEntry, now time.Time) bool {
	if entry.StartDt != nil && entry.StartDt.After(now) {
		return false
	}

	intervalMin := entry.IntervalMinutes()

	var reference time.Time
	switch {
	case entry.LastDt != nil:
		reference = *entry.LastDt
	case entry.StartDt != nil && !entry.StartDt.After(now):
		reference = *entry.StartDt
	default:
		y, m, d := now.Date()
		reference = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}

	elapsedMin := int(now.Sub(reference).Minutes())
	if elapsedMin < intervalMin {
		return false
	}
	return elapsedMin%intervalMin <= 1
}
