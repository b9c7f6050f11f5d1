package correlate

import (
	"testing"

	"mactrace/internal/domain"
)

func TestCorrelateMatch(t *testing.T) {
	macTable := map[string]domain.MacEntry{
		"aabbccddeeff": {Mac: "aabb.ccdd.eeff", Port: "Gi0/1", Vlan: "1", SourceDevice: "sw1"},
	}
	bindings := []domain.AddressBinding{
		{Mac: "AA:BB:CC:DD:EE:FF", IP: "10.0.0.5"},
	}

	records := Correlate(macTable, bindings)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.Mac != "aabb.ccdd.eeff" {
		t.Errorf("mac = %q, want the table's stored representation", r.Mac)
	}
	if r.IP != "10.0.0.5" || r.Device != "sw1" || r.Port != "Gi0/1" || r.Vlan != "1" {
		t.Errorf("record = %+v", r)
	}
}

func TestCorrelateIntersectionOnly(t *testing.T) {
	macTable := map[string]domain.MacEntry{
		"aabbccddeeff": {Mac: "aabb.ccdd.eeff", Port: "Gi0/1", Vlan: "1", SourceDevice: "sw1"},
		"112233445566": {Mac: "1122.3344.5566", Port: "Gi0/2", Vlan: "2", SourceDevice: "sw1"},
	}
	bindings := []domain.AddressBinding{
		{Mac: "aabb.ccdd.eeff", IP: "10.0.0.5"},
		{Mac: "dead.beef.0000", IP: "10.0.0.6"}, // not in table: dropped
	}

	records := Correlate(macTable, bindings)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (intersection only)", len(records))
	}
	if records[0].Mac != "aabb.ccdd.eeff" {
		t.Errorf("mac = %q", records[0].Mac)
	}
}

func TestCorrelateAtMostOnePerMAC(t *testing.T) {
	macTable := map[string]domain.MacEntry{
		"aabbccddeeff": {Mac: "aabb.ccdd.eeff", Port: "Gi0/1", Vlan: "1", SourceDevice: "sw1"},
	}
	// Duplicate bindings in different representations.
	bindings := []domain.AddressBinding{
		{Mac: "aabb.ccdd.eeff", IP: "10.0.0.5"},
		{Mac: "aa:bb:cc:dd:ee:ff", IP: "10.0.0.77"},
	}

	records := Correlate(macTable, bindings)
	if len(records) != 1 {
		t.Fatalf("got %d records, want at most one per canonical MAC", len(records))
	}
	if records[0].IP != "10.0.0.5" {
		t.Errorf("IP = %q, want the first binding's", records[0].IP)
	}
}

func TestCorrelateEmpty(t *testing.T) {
	if got := Correlate(nil, nil); len(got) != 0 {
		t.Errorf("Correlate(nil, nil) = %v", got)
	}
	if got := Correlate(map[string]domain.MacEntry{}, []domain.AddressBinding{{Mac: "aabb.ccdd.eeff", IP: "10.0.0.5"}}); len(got) != 0 {
		t.Errorf("Correlate with empty table = %v", got)
	}
}
