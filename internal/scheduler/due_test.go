package scheduler

import (
	"testing"
	"time"

	"github.com/netmonagent/snmp-poller/internal/model"
)

func TestIsDue_FiveMinuteInterval(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	sixMinAgo := now.Add(-6 * time.Minute)
	entry := model.CronEntry{Minutes: 5, LastDt: &sixMinAgo}
	if !IsDue(entry, now) {
		t.Error("expected due when last run was 6 minutes ago on a 5-minute interval")
	}

	thirtySecAgo := now.Add(-30 * time.Second)
	entry = model.CronEntry{Minutes: 5, LastDt: &thirtySecAgo}
	if IsDue(entry, now) {
		t.Error("expected not due when last run was 30 seconds ago")
	}

	future := now.Add(1 * time.Minute)
	entry = model.CronEntry{Minutes: 5, StartDt: &future}
	if IsDue(entry, now) {
		t.Error("expected not due when startDt is in the future, regardless of lastDt")
	}
}

func TestIsDue_ZeroIntervalDefaultsToOneMinute(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	twoMinAgo := now.Add(-2 * time.Minute)
	entry := model.CronEntry{Days: 0, Hours: 0, Minutes: 0, LastDt: &twoMinAgo}
	if !IsDue(entry, now) {
		t.Error("expected a zero-interval entry to default to a 1-minute interval and be due")
	}
}

func TestIsDue_ModOneGuard(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// elapsed=10, interval=5: 10 mod 5 == 0, due.
	tenMinAgo := now.Add(-10 * time.Minute)
	entry := model.CronEntry{Minutes: 5, LastDt: &tenMinAgo}
	if !IsDue(entry, now) {
		t.Error("expected due at an exact multiple of the interval")
	}

	// elapsed=12, interval=5: 12 mod 5 == 2, drifted too far, not due.
	twelveMinAgo := now.Add(-12 * time.Minute)
	entry = model.CronEntry{Minutes: 5, LastDt: &twelveMinAgo}
	if IsDue(entry, now) {
		t.Error("expected not due once drift exceeds the mod-1 guard")
	}
}

func TestIsDue_NoLastOrStartUsesTodayMidnight(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC)
	entry := model.CronEntry{Minutes: 15}
	if !IsDue(entry, now) {
		t.Error("expected due when elapsed since midnight (30min) exceeds the interval (15min) at a 0 remainder")
	}
}

func TestIsDue_Idempotent(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sixMinAgo := now.Add(-6 * time.Minute)
	entry := model.CronEntry{Minutes: 5, LastDt: &sixMinAgo}
	first := IsDue(entry, now)
	second := IsDue(entry, now)
	if first != second {
		t.Errorf("IsDue is not idempotent: got %v then %v", first, second)
	}
}

func TestIsDue_StartDtInPastUsedAsReferenceWhenNoLastDt(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-20 * time.Minute)
	entry := model.CronEntry{Minutes: 10, StartDt: &start}
	if !IsDue(entry, now) {
		t.Error("expected due using startDt as reference when lastDt is unset")
	}
}
