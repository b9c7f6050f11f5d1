// Package correlate joins the L2 forwarding table with L3 address bindings.
package correlate

import (
	"log"

	"mactrace/internal/domain"
)

// Correlate matches each binding against the MAC table using the
// comparison-canonical transform and emits one CorrelatedRecord per MAC
// present on both sides. The emitted record carries the MacEntry's stored
// MAC representation, not the binding's. Bindings with no table entry are
// logged and dropped: an address seen at L3 with no L2 observation is a
// stale entry or incomplete collection, not an error.
func Correlate(macTable map[string]domain.MacEntry, bindings []domain.AddressBinding) []domain.CorrelatedRecord {
	var records []domain.CorrelatedRecord
	matched := make(map[string]bool)

	for _, binding := range bindings {
		key := domain.CanonicalMAC(binding.Mac)
		entry, ok := macTable[key]
		if !ok {
			log.Printf("Correlate: no L2 entry for binding %s -> %s, dropped", binding.Mac, binding.IP)
			continue
		}
		if matched[key] {
			continue
		}
		matched[key] = true

		records = append(records, domain.CorrelatedRecord{
			Mac:    entry.Mac,
			IP:     binding.IP,
			Device: entry.SourceDevice,
			Port:   entry.Port,
			Vlan:   entry.Vlan,
		})
	}

	return records
}
