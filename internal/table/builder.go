// Package table builds the per-run MAC forwarding table from extracted
// records.
//
// Records arrive in two shapes. When the template that produced them
// declares a fixed schema and the field count matches, fields are read
// positionally. Otherwise the builder falls back to heuristic field
// classification: the first MAC-looking field wins, and the port is the
// first remaining field that looks like an interface name. Rows that yield
// no MAC candidate are dropped silently; tables legitimately contain
// header and footer noise.
package table

import (
	"log"
	"strings"

	"mactrace/internal/domain"
	"mactrace/internal/extract"
)

// defaultInterfacePrefixes identify port-looking tokens across the common
// vendor interface naming schemes.
var defaultInterfacePrefixes = []string{"gi", "fa", "eth", "po", "te", "port"}

// reservedStatusWords are table status tokens that would otherwise pass the
// prefix test ("static" contains "te") and must never be read as a port.
var reservedStatusWords = map[string]bool{
	"dynamic": true,
	"static":  true,
	"learned": true,
}

// Builder accumulates MacEntry values across the devices of one collection
// phase, keyed by comparison-canonical MAC.
type Builder struct {
	entries  map[string]domain.MacEntry
	order    []string
	prefixes []string
}

// NewBuilder creates an empty builder with the default interface prefixes.
func NewBuilder() *Builder {
	return &Builder{
		entries:  make(map[string]domain.MacEntry),
		prefixes: defaultInterfacePrefixes,
	}
}

// SetInterfacePrefixes replaces the port-token prefix set, for fleets with
// unusual interface naming.
func (b *Builder) SetInterfacePrefixes(prefixes []string) {
	if len(prefixes) > 0 {
		lowered := make([]string, len(prefixes))
		for i, p := range prefixes {
			lowered[i] = strings.ToLower(p)
		}
		b.prefixes = lowered
	}
}

// Add folds one device's extracted records into the table. schema may be
// nil when the producing template declares no fixed layout.
func (b *Builder) Add(records []extract.Record, schema *extract.Schema, device string) {
	for _, rec := range records {
		entry, ok := b.classify(rec, schema, device)
		if !ok {
			log.Printf("Table: no MAC candidate in record %v, dropped", rec)
			continue
		}
		b.insert(entry)
	}
}

// classify extracts a MacEntry from one record, positionally when the
// schema's field count matches, heuristically otherwise.
func (b *Builder) classify(rec extract.Record, schema *extract.Schema, device string) (domain.MacEntry, bool) {
	if schema != nil && len(rec) == schema.FieldCount {
		mac := rec[schema.MacIndex]
		if !domain.LooksLikeMAC(mac) {
			return domain.MacEntry{}, false
		}
		var vlan, port string
		if schema.VlanIndex >= 0 && schema.VlanIndex < len(rec) {
			vlan = rec[schema.VlanIndex]
		}
		if schema.PortIndex >= 0 && schema.PortIndex < len(rec) {
			port = rec[schema.PortIndex]
		}
		return domain.NewMacEntry(mac, port, vlan, device), true
	}

	macIdx := domain.FindMACField(rec)
	if macIdx < 0 {
		return domain.MacEntry{}, false
	}

	port := ""
	for i, field := range rec {
		if i == macIdx {
			continue
		}
		if b.looksLikePort(field) {
			port = field
			break
		}
	}

	return domain.NewMacEntry(rec[macIdx], port, "", device), true
}

// looksLikePort reports whether a field names an interface: it contains one
// of the known interface prefixes and is not a reserved status word.
func (b *Builder) looksLikePort(field string) bool {
	lower := strings.ToLower(field)
	if reservedStatusWords[lower] {
		return false
	}
	for _, prefix := range b.prefixes {
		if strings.Contains(lower, prefix) {
			return true
		}
	}
	return false
}

// Insert adds an already-structured entry, bypassing record classification.
// Used by collectors that produce MacEntry values directly.
func (b *Builder) Insert(entry domain.MacEntry) {
	b.insert(entry)
}

// insert adds an entry or merges it into the existing one for the same
// canonical MAC. The first-observed storage form and source device stick;
// port and vlan follow the unknown-only overwrite rule.
func (b *Builder) insert(entry domain.MacEntry) {
	key := domain.CanonicalMAC(entry.Mac)
	if key == "" {
		return
	}
	existing, ok := b.entries[key]
	if !ok {
		b.entries[key] = entry
		b.order = append(b.order, key)
		return
	}
	existing.Merge(entry)
	b.entries[key] = existing
}

// Entries returns the accumulated table keyed by canonical MAC.
func (b *Builder) Entries() map[string]domain.MacEntry {
	return b.entries
}

// Macs returns the stored MAC representations in first-observed order.
func (b *Builder) Macs() []string {
	macs := make([]string, 0, len(b.order))
	for _, key := range b.order {
		macs = append(macs, b.entries[key].Mac)
	}
	return macs
}

// Len reports how many distinct MACs the table holds.
func (b *Builder) Len() int {
	return len(b.entries)
}
