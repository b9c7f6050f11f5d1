package run

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mactrace/internal/domain"
	"mactrace/internal/extract"
	"mactrace/internal/probe"
)

// fakeSession answers commands from a canned map and records Close calls.
type fakeSession struct {
	host      string
	responses map[string]string
	closed    bool
}

func (f *fakeSession) Execute(command string) (string, error) {
	if out, ok := f.responses[command]; ok {
		return out, nil
	}
	return "% Invalid input detected at '^' marker.", nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

// fakeDialer serves fakeSessions per host; hosts absent from the map fail
// to connect.
type fakeDialer struct {
	sessions map[string]*fakeSession
}

func (f *fakeDialer) Dial(_ context.Context, host string) (Session, error) {
	sess, ok := f.sessions[host]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return sess, nil
}

// pad lengthens table output past the classifier's floor without touching
// its rows.
func pad(rows string) string {
	return rows + "\n" + strings.Repeat("-", 120) + "\n"
}

func testEngine(t *testing.T) extract.Engine {
	t.Helper()
	return extract.NewDirEngine("../../templates")
}

// TestExecuteEndToEnd is the ARP-mode scenario: one L2 row and one ARP row
// correlate into a single record.
func TestExecuteEndToEnd(t *testing.T) {
	l2 := &fakeSession{
		host: "sw1",
		responses: map[string]string{
			"show mac address-table": pad("Vlan    Mac Address       Type        Ports\n   1    aabb.ccdd.eeff    DYNAMIC     Gi0/1"),
		},
	}
	l3 := &fakeSession{
		host: "rtr1",
		responses: map[string]string{
			"show ip arp": pad("Protocol  Address          Age (min)  Hardware Addr   Type   Interface\n10.0.0.5 00 aabb.ccdd.eeff"),
		},
	}

	dialer := &fakeDialer{sessions: map[string]*fakeSession{"sw1": l2, "rtr1": l3}}
	runner := NewRunner(dialer, probe.NewProber(), testEngine(t), Options{})

	records, builder := runner.Execute(context.Background(), []string{"sw1"}, []string{"rtr1"})

	if builder.Len() != 1 {
		t.Fatalf("MAC table size = %d, want 1", builder.Len())
	}
	if len(records) != 1 {
		t.Fatalf("got %d correlated records, want 1", len(records))
	}

	r := records[0]
	if r.Mac != "aabb.ccdd.eeff" || r.IP != "10.0.0.5" || r.Port != "Gi0/1" || r.Vlan != "1" || r.Device != "sw1" {
		t.Errorf("record = %+v", r)
	}

	if !l2.closed || !l3.closed {
		t.Error("sessions were not closed at phase end")
	}
}

// TestExecuteOverlayMode resolves addresses from EVPN output instead of
// ARP tables.
func TestExecuteOverlayMode(t *testing.T) {
	l2 := &fakeSession{
		host: "leaf1",
		responses: map[string]string{
			"show mac address-table": pad("Vlan    Mac Address       Type        Ports\n  10    aabb.bbcc.ccdd    DYNAMIC     Eth1/1"),
		},
	}
	l3 := &fakeSession{
		host: "spine1",
		responses: map[string]string{
			"show l2route evpn mac-ip all": pad("Route Distinguisher 1:1 mac-ip aabb.bbcc.ccdd 10.0.0.9 Gi0/2"),
		},
	}

	dialer := &fakeDialer{sessions: map[string]*fakeSession{"leaf1": l2, "spine1": l3}}
	runner := NewRunner(dialer, probe.NewProber(), testEngine(t), Options{Overlay: true})

	records, _ := runner.Execute(context.Background(), []string{"leaf1"}, []string{"spine1"})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.Mac != "aabb.bbcc.ccdd" || r.IP != "10.0.0.9" || r.Port != "Eth1/1" || r.Vlan != "10" {
		t.Errorf("record = %+v", r)
	}
}

// TestUnreachableDeviceSkipped checks that a connect failure skips the
// device and the phase continues.
func TestUnreachableDeviceSkipped(t *testing.T) {
	good := &fakeSession{
		host: "sw2",
		responses: map[string]string{
			"show mac address-table": pad("Vlan    Mac Address       Type        Ports\n   1    aabb.ccdd.eeff    DYNAMIC     Gi0/1"),
		},
	}

	dialer := &fakeDialer{sessions: map[string]*fakeSession{"sw2": good}}
	runner := NewRunner(dialer, probe.NewProber(), testEngine(t), Options{})

	builder := runner.CollectMACTables(context.Background(), []string{"sw-dead", "sw2"})
	if builder.Len() != 1 {
		t.Errorf("MAC table size = %d, want 1 from the reachable device", builder.Len())
	}
}

// TestProbeExhaustedContributesNothing checks that a device answering no
// command variant usably is skipped without error.
func TestProbeExhaustedContributesNothing(t *testing.T) {
	mute := &fakeSession{host: "sw3", responses: map[string]string{}}

	dialer := &fakeDialer{sessions: map[string]*fakeSession{"sw3": mute}}
	runner := NewRunner(dialer, probe.NewProber(), testEngine(t), Options{})

	builder := runner.CollectMACTables(context.Background(), []string{"sw3"})
	if builder.Len() != 0 {
		t.Errorf("MAC table size = %d, want 0", builder.Len())
	}
	if !mute.closed {
		t.Error("session not closed after probe exhaustion")
	}
}

// TestMergeAcrossPhaseDevices checks first-known-good precedence across two
// devices reporting the same MAC.
func TestMergeAcrossPhaseDevices(t *testing.T) {
	// Both devices report the same MAC on different ports; the first
	// observation sticks.
	sw1 := &fakeSession{
		host: "sw1",
		responses: map[string]string{
			"show mac address-table": pad("Vlan    Mac Address       Type        Ports\n   1    aabb.ccdd.eeff    DYNAMIC     Gi0/7"),
		},
	}
	sw2 := &fakeSession{
		host: "sw2",
		responses: map[string]string{
			"show mac address-table": pad("Vlan    Mac Address       Type        Ports\n   1    aabb.ccdd.eeff    DYNAMIC     Gi0/9"),
		},
	}

	dialer := &fakeDialer{sessions: map[string]*fakeSession{"sw1": sw1, "sw2": sw2}}
	runner := NewRunner(dialer, probe.NewProber(), testEngine(t), Options{})

	builder := runner.CollectMACTables(context.Background(), []string{"sw1", "sw2"})
	if builder.Len() != 1 {
		t.Fatalf("MAC table size = %d, want 1", builder.Len())
	}
	e := builder.Entries()["aabbccddeeff"]
	if e.Port != "Gi0/7" || e.SourceDevice != "sw1" {
		t.Errorf("entry = %+v, want first device's port and attribution", e)
	}
}

// fakeResolver maps IPs to PTR names.
type fakeResolver struct {
	names map[string][]string
}

func (f *fakeResolver) LookupAddr(_ context.Context, addr string) ([]string, error) {
	if names, ok := f.names[addr]; ok {
		return names, nil
	}
	return nil, errors.New("no PTR record")
}

func TestResolveHostnames(t *testing.T) {
	records := []domain.CorrelatedRecord{
		{Mac: "aabb.ccdd.eeff", IP: "10.0.0.5"},
		{Mac: "1122.3344.5566", IP: "10.0.0.6"},
		{Mac: "dead.beef.0000", IP: "10.0.0.5"}, // duplicate IP, one lookup
	}

	resolver := &fakeResolver{names: map[string][]string{
		"10.0.0.5": {"host-a.example.net."},
	}}

	hosts, order := ResolveHostnames(context.Background(), resolver, records)

	if records[0].Hostname != "host-a.example.net" {
		t.Errorf("hostname = %q", records[0].Hostname)
	}
	if records[1].Hostname != "" {
		t.Errorf("unresolvable IP got hostname %q", records[1].Hostname)
	}
	if records[2].Hostname != "host-a.example.net" {
		t.Errorf("duplicate IP hostname = %q", records[2].Hostname)
	}
	if len(order) != 2 {
		t.Errorf("order = %v, want one entry per distinct IP", order)
	}
	if hosts["10.0.0.5"] != "host-a.example.net" || hosts["10.0.0.6"] != "" {
		t.Errorf("hosts = %v", hosts)
	}
}
