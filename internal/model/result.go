package model

import "time"

// Journal records one task invocation, from StartDt to EndDt.
type Journal struct {
	ID      int64
	TaskID  int64
	StartDt time.Time
	EndDt   *time.Time
}

// Result is a row in mon.result: either a raw SNMP capture or a
// handler's processed summary. Key is part of the external contract
// (SPEC_FULL.md §6) — downstream SQL inspects its prefix.
type Result struct {
	ID         int64
	NodeID     int64
	RequestID  int64
	JournalID  int64
	Val        *string
	Key        string
	DurationMS int64
	Err        *string
	Dt         time.Time
}

// Binding is one (OID, value) pair as returned by the SNMP client,
// before any handler has interpreted it.
type Binding struct {
	OID   string
	Value string
}
