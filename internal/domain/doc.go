// Package domain defines the core domain types for the mactrace correlation engine.
//
// This package contains the fundamental entities and value objects shared by
// the collection and correlation pipeline: MAC table entries, address bindings,
// correlated records, and the MAC address canonicalization rules.
//
// # MAC representations
//
// A MAC address crosses the pipeline in two forms. The storage form preserves
// the separator style the device reported (colon-delimited, dot-delimited, or
// bare hex), lower-cased, and is what ends up in output artifacts. The
// comparison form strips all separators and lower-cases the hex digits; it is
// used only for equality checks between independently collected tables and
// never for display.
//
// # Accumulators
//
// MacEntry is the per-MAC forwarding-table observation built during the L2
// phase. AddressBinding is an IP/MAC pair produced by the ARP or overlay
// resolution pass. CorrelatedRecord is the join of the two, one per MAC seen
// on both sides. All three are built fresh per run and discarded afterwards;
// nothing in this package persists across invocations.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
package domain
