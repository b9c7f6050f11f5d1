// Package probe implements adaptive command probing against network devices.
//
// Vendor platforms disagree on the exact spelling of the commands that dump
// forwarding, ARP and overlay state. Each task carries an ordered list of
// known command variants (empirically ordered: IOS-style first, then NX-OS,
// then EVPN-flavoured spellings) and a validity predicate; the prober walks
// the list against a live session and returns the first output the
// classifier accepts.
package probe

import "strings"

// Task identifies what kind of table a probe is after.
type Task int

const (
	MacTableFetch Task = iota
	ArpTableFetch
	OverlayBindingFetch
)

func (t Task) String() string {
	switch t {
	case MacTableFetch:
		return "mac_table"
	case ArpTableFetch:
		return "arp_table"
	case OverlayBindingFetch:
		return "overlay_binding"
	default:
		return "unknown"
	}
}

// minOutputLength is the floor below which no output is considered a table,
// whatever keywords it contains. Short output is invariably an error banner
// or an empty-table message.
const minOutputLength = 100

// taskSpec couples a task's command variants with its validity predicate.
type taskSpec struct {
	commands []string
	keywords []string
}

// Command order is significant: it encodes which platforms answer which
// spelling, with the most common platform first.
var taskSpecs = map[Task]taskSpec{
	MacTableFetch: {
		commands: []string{
			"show mac address-table",
			"show mac-address-table",
			"show mac addr",
			"show mac address-table dynamic",
		},
		keywords: []string{"mac", "address", "vlan"},
	},
	ArpTableFetch: {
		commands: []string{
			"show ip arp",
			"show arp",
			"show ip arp | exclude Incomplete",
		},
		keywords: []string{"ip", "address", "arp"},
	},
	OverlayBindingFetch: {
		commands: []string{
			"show l2route evpn mac-ip all",
			"show bgp l2vpn evpn",
			"show evpn evi mac",
		},
		keywords: []string{"mac", "evpn", "bgp"},
	},
}

// Commands returns the ordered candidate commands for a task.
func (t Task) Commands() []string {
	return taskSpecs[t].commands
}

// IsValid reports whether output looks like the table the task expects:
// longer than the minimum length and containing at least one of the task's
// keywords, case-insensitively. The keyword sets are deliberately permissive
// because vendor wording varies; a false accept costs nothing downstream
// (extraction yields no rows) while a false reject loses real data.
func (t Task) IsValid(output string) bool {
	if len(output) <= minOutputLength {
		return false
	}
	lower := strings.ToLower(output)
	for _, kw := range taskSpecs[t].keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
