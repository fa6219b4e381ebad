package handlers

import (
	"context"
	"testing"

	"github.com/netmonagent/snmp-poller/internal/model"
)

type fakeArpUpserter struct {
	arpRows []model.ArpRow
	ifRows  []model.InterfaceIPRow
}

func (f *fakeArpUpserter) UpsertArpBatch(ctx context.Context, rows []model.ArpRow) error {
	f.arpRows = append(f.arpRows, rows...)
	return nil
}

func (f *fakeArpUpserter) UpsertInterfaceIPBatch(ctx context.Context, rows []model.InterfaceIPRow) error {
	f.ifRows = append(f.ifRows, rows...)
	return nil
}

func TestArp_WithIfIndex(t *testing.T) {
	arps := &fakeArpUpserter{}
	h := &Arp{Arps: arps}

	val := bindingsJSON(t, [][2]string{
		{"1.3.6.1.2.1.4.22.1.2.3.10.0.0.1", "Hex-STRING: aa bb cc dd ee ff"},
	})

	got := h.ProcessRaw(context.Background(), model.Node{ID: 1}, model.Request{}, 1, []model.Result{{Val: &val}})
	if got.Err != nil {
		t.Fatalf("unexpected error: %v", *got.Err)
	}

	if len(arps.arpRows) != 1 {
		t.Fatalf("expected 1 arp row, got %d", len(arps.arpRows))
	}
	if arps.arpRows[0].IPAddress != "10.0.0.1" {
		t.Errorf("expected ip 10.0.0.1, got %q", arps.arpRows[0].IPAddress)
	}
	if arps.arpRows[0].MacAddress != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("expected mac aa:bb:cc:dd:ee:ff, got %q", arps.arpRows[0].MacAddress)
	}
	if arps.arpRows[0].Source != "arp" {
		t.Errorf("expected source arp, got %q", arps.arpRows[0].Source)
	}

	if len(arps.ifRows) != 1 {
		t.Fatalf("expected 1 interface_ip row, got %d", len(arps.ifRows))
	}
	if arps.ifRows[0].IfIndex != 3 {
		t.Errorf("expected ifIndex 3, got %d", arps.ifRows[0].IfIndex)
	}
	if arps.ifRows[0].IPAddress != "10.0.0.1" {
		t.Errorf("expected ip 10.0.0.1, got %q", arps.ifRows[0].IPAddress)
	}
}

func TestArp_DiscardsIPsWithoutMAC(t *testing.T) {
	arps := &fakeArpUpserter{}
	h := &Arp{Arps: arps}

	val := bindingsJSON(t, [][2]string{
		{"1.3.6.1.2.1.4.22.1.3.3.10.0.0.2", "10.0.0.2"},
	})

	h.ProcessRaw(context.Background(), model.Node{ID: 1}, model.Request{}, 1, []model.Result{{Val: &val}})

	if len(arps.arpRows) != 0 {
		t.Errorf("expected no arp rows for an IP with no observed MAC, got %d", len(arps.arpRows))
	}
}
