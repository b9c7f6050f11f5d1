package domain

// ValueUnknown marks a MacEntry field the L2 table did not supply.
const ValueUnknown = "unknown"

// MacEntry is one forwarding-table observation, keyed by canonical MAC.
// Mac holds the storage form (original separator style, lower-cased).
type MacEntry struct {
	Mac          string
	Port         string
	Vlan         string
	SourceDevice string
}

// NewMacEntry creates an entry for a freshly observed MAC. Empty port or
// vlan values are recorded as unknown.
func NewMacEntry(mac, port, vlan, device string) MacEntry {
	if port == "" {
		port = ValueUnknown
	}
	if vlan == "" {
		vlan = ValueUnknown
	}
	return MacEntry{
		Mac:          NormalizeMAC(mac),
		Port:         port,
		Vlan:         vlan,
		SourceDevice: device,
	}
}

// Merge folds a later observation of the same MAC into the entry. A field
// is only overwritten when the existing value is unknown and the incoming
// one is not; a known value is never superseded. Port and vlan follow the
// rule independently. Reports whether anything changed.
func (e *MacEntry) Merge(other MacEntry) bool {
	changed := false
	if e.Port == ValueUnknown && other.Port != ValueUnknown && other.Port != "" {
		e.Port = other.Port
		changed = true
	}
	if e.Vlan == ValueUnknown && other.Vlan != ValueUnknown && other.Vlan != "" {
		e.Vlan = other.Vlan
		changed = true
	}
	return changed
}

// AddressBinding is an IP/MAC pair observed at L3, from either an ARP
// table or an overlay control-plane advertisement. Mac keeps whatever
// representation the source emitted; consumers compare canonically.
type AddressBinding struct {
	Mac string
	IP  string
}

// CorrelatedRecord joins an L2 MacEntry with a resolved address. Mac is the
// MacEntry's stored representation, not the binding's. Hostname is filled
// in by a reverse-DNS pass after correlation and may stay empty.
type CorrelatedRecord struct {
	Mac      string
	IP       string
	Device   string
	Port     string
	Vlan     string
	Hostname string
}
