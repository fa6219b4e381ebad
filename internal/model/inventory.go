package model

import "time"

// InterfaceRow is one (node_id, if_index) row of mon.interface_inventory.
// Non-pointer fields are coerced at parse time; pointer fields may be
// legitimately absent from a given raw record and must never overwrite
// an already-known value with null on merge (SPEC_FULL.md §4.2.2).
type InterfaceRow struct {
	NodeID         int64
	IfIndex        int
	IfName         *string
	IfDescr        *string
	IfType         *int
	IfMTU          *int
	IfSpeed        *int64
	IfPhysAddress  *string
	IfAdminStatus  *int
	IfOperStatus   *int
	IfLastChange   *int64
	IfAlias        *string
	FirstSeen      time.Time
	LastSeen       time.Time
	Status         string
}

// Merge fills any nil field of r from other without overwriting a
// non-nil value already present in r.
func (r *InterfaceRow) Merge(other InterfaceRow) {
	if r.IfName == nil {
		r.IfName = other.IfName
	}
	if r.IfDescr == nil {
		r.IfDescr = other.IfDescr
	}
	if r.IfType == nil {
		r.IfType = other.IfType
	}
	if r.IfMTU == nil {
		r.IfMTU = other.IfMTU
	}
	if r.IfSpeed == nil {
		r.IfSpeed = other.IfSpeed
	}
	if r.IfPhysAddress == nil {
		r.IfPhysAddress = other.IfPhysAddress
	}
	if r.IfAdminStatus == nil {
		r.IfAdminStatus = other.IfAdminStatus
	}
	if r.IfOperStatus == nil {
		r.IfOperStatus = other.IfOperStatus
	}
	if r.IfLastChange == nil {
		r.IfLastChange = other.IfLastChange
	}
	if r.IfAlias == nil {
		r.IfAlias = other.IfAlias
	}
}

// MacRow is one (node_id, mac_address) row of mon.mac_addresses.
type MacRow struct {
	NodeID       int64
	MacAddress   string
	InterfaceID  *int64
	VlanID       *int
	PortNumber   *int
	Source       string
	Status       string
	FirstSeen    time.Time
	LastSeen     time.Time
}

// Merge fills nil pointer fields of r from other without clobbering
// known values. Status is different: other's Status replaces r's
// whenever it is non-empty.
func (r *MacRow) Merge(other MacRow) {
	if r.InterfaceID == nil {
		r.InterfaceID = other.InterfaceID
	}
	if r.VlanID == nil {
		r.VlanID = other.VlanID
	}
	if r.PortNumber == nil {
		r.PortNumber = other.PortNumber
	}
	if other.Status != "" {
		r.Status = other.Status
	}
}

// ArpRow is one (node_id, ip_address, mac_address) row of mon.arp_table.
type ArpRow struct {
	NodeID     int64
	IPAddress  string
	MacAddress string
	Source     string
	FirstSeen  time.Time
	LastSeen   time.Time
}

// InterfaceIPRow is one (node_id, if_index, ip_address) row of
// mon.interface_ip.
type InterfaceIPRow struct {
	NodeID    int64
	IfIndex   int
	IPAddress string
}
