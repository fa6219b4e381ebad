package handlers

import (
	"context"
	"testing"

	"github.com/netmonagent/snmp-poller/internal/model"
)

type fakeElementLookup struct {
	nodeID     int64
	snmpID     int
	elementID  int64
	found      bool
}

func (f *fakeElementLookup) LookupElementBySNMPID(ctx context.Context, nodeID int64, snmpID int) (int64, bool, error) {
	if nodeID == f.nodeID && snmpID == f.snmpID {
		return f.elementID, f.found, nil
	}
	return 0, false, nil
}

type fakeMacUpserter struct {
	rows []model.MacRow
}

func (f *fakeMacUpserter) UpsertMacBatch(ctx context.Context, rows []model.MacRow) error {
	f.rows = append(f.rows, rows...)
	return nil
}

func TestMacTable_PortAssignment(t *testing.T) {
	elements := &fakeElementLookup{nodeID: 42, snmpID: 5, elementID: 42, found: true}
	macs := &fakeMacUpserter{}
	h := &MacTable{Elements: elements, Macs: macs}

	val := bindingsJSON(t, [][2]string{
		{"1.3.6.1.2.1.17.4.3.1.1.0.8.124.134.3.152", "Hex-STRING: 00 08 7c 86 03 98"},
		{"1.3.6.1.2.1.17.4.3.1.2.0.8.124.134.3.152", "INTEGER: 5"},
	})

	node := model.Node{ID: 42}
	got := h.ProcessRaw(context.Background(), node, model.Request{}, 1, []model.Result{{Val: &val}})

	if got.Err != nil {
		t.Fatalf("unexpected error: %v", *got.Err)
	}
	if len(macs.rows) != 1 {
		t.Fatalf("expected 1 mac row, got %d", len(macs.rows))
	}

	row := macs.rows[0]
	if row.MacAddress != "00:08:7c:86:03:98" {
		t.Errorf("expected mac 00:08:7c:86:03:98, got %q", row.MacAddress)
	}
	if row.PortNumber == nil || *row.PortNumber != 5 {
		t.Errorf("expected port number 5, got %v", row.PortNumber)
	}
	if row.InterfaceID == nil || *row.InterfaceID != 42 {
		t.Errorf("expected interface id 42, got %v", row.InterfaceID)
	}
	if row.Source != "bridge_fdb" {
		t.Errorf("expected source bridge_fdb, got %q", row.Source)
	}
}

func TestMacTable_UnresolvedPortLeavesInterfaceIDNil(t *testing.T) {
	elements := &fakeElementLookup{nodeID: 42, snmpID: 99, elementID: 1, found: false}
	macs := &fakeMacUpserter{}
	h := &MacTable{Elements: elements, Macs: macs}

	val := bindingsJSON(t, [][2]string{
		{"1.3.6.1.2.1.17.4.3.1.1.0.8.124.134.3.152", "00087c860398"},
		{"1.3.6.1.2.1.17.4.3.1.2.0.8.124.134.3.152", "7"},
	})

	h.ProcessRaw(context.Background(), model.Node{ID: 42}, model.Request{}, 1, []model.Result{{Val: &val}})

	if len(macs.rows) != 1 {
		t.Fatalf("expected 1 mac row, got %d", len(macs.rows))
	}
	if macs.rows[0].InterfaceID != nil {
		t.Errorf("expected nil interface id for unresolved port, got %v", *macs.rows[0].InterfaceID)
	}
}
