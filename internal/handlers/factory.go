package handlers

import "fmt"

// Deps bundles the persistence ports each concrete handler needs. A
// single Deps value is shared across every Factory.Create call.
type Deps struct {
	Nodes      NodeUpdater
	Interfaces InterfaceUpserter
	Elements   ElementLookup
	Macs       MacUpserter
	Arps       ArpUpserter
}

// StubFlagFunc reports whether USE_STUB_HANDLERS is currently set.
// Factory calls it on every Create rather than reading it once at
// construction time — the legacy behavior this preserves read the
// flag at module-import time as a side effect, which meant a flag
// flip after startup never took effect; reading it per call avoids
// that trap (SPEC_FULL.md design notes, open question (a)).
type StubFlagFunc func() bool

// Factory maps a numeric handler id to a constructed Handler, the
// registry named in SPEC_FULL.md §6.
type Factory struct {
	deps    Deps
	useStub StubFlagFunc
}

// NewFactory builds a Factory over deps. useStub is consulted fresh on
// every Create call.
func NewFactory(deps Deps, useStub StubFlagFunc) *Factory {
	return &Factory{deps: deps, useStub: useStub}
}

// Create returns the Handler for handlerID, or an error for an
// unrecognized id. The task runner logs that error and skips Phase 2;
// it does not fail the task: Run returns nil, the run is reported as
// succeeded, and the cron entry returns to ACTIVE.
func (f *Factory) Create(handlerID int64) (Handler, error) {
	if f.useStub != nil && f.useStub() {
		return &Stub{}, nil
	}

	switch handlerID {
	case 1:
		return &SNMPRaw{}, nil
	case 2:
		return &MacCombined{MacTable: MacTable{Elements: f.deps.Elements, Macs: f.deps.Macs}}, nil
	case 3:
		return &InterfaceLegacy{InterfaceDiscovery: InterfaceDiscovery{Interfaces: f.deps.Interfaces}}, nil
	case 4:
		return &InterfaceDiscovery{Interfaces: f.deps.Interfaces}, nil
	case 5:
		return &MacTable{Elements: f.deps.Elements, Macs: f.deps.Macs}, nil
	case 6:
		return &Arp{Arps: f.deps.Arps}, nil
	case 7:
		return &Health{Nodes: f.deps.Nodes}, nil
	case 99:
		return &Stub{}, nil
	default:
		return nil, fmt.Errorf("handlers: unknown handler id %d", handlerID)
	}
}
