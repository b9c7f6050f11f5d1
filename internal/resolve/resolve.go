// Package resolve builds IP/MAC address bindings from Layer-3 state.
//
// Two mutually exclusive sources exist per run: ARP tables, which arrive as
// extracted records, and overlay (EVPN/VXLAN fabric) advertisements, which
// are scanned as raw line-oriented text because no stable template exists
// for the vendor variants of that output.
package resolve

import (
	"log"
	"strings"

	"mactrace/internal/domain"
	"mactrace/internal/extract"
)

// Bindings accumulates AddressBinding values across the devices of one
// resolution phase. First writer wins per canonical MAC.
type Bindings struct {
	list []domain.AddressBinding
	seen map[string]bool
}

// NewBindings creates an empty accumulator.
func NewBindings() *Bindings {
	return &Bindings{seen: make(map[string]bool)}
}

// add records a binding unless its canonical MAC was already bound.
func (b *Bindings) add(mac, ip string) {
	key := domain.CanonicalMAC(mac)
	if key == "" || b.seen[key] {
		return
	}
	b.seen[key] = true
	b.list = append(b.list, domain.AddressBinding{Mac: mac, IP: ip})
}

// List returns the accumulated bindings in observation order.
func (b *Bindings) List() []domain.AddressBinding {
	return b.list
}

// Len reports how many bindings have been recorded.
func (b *Bindings) Len() int {
	return len(b.list)
}

// AddARP folds extracted ARP records into the binding set. The IP is the
// first field. The MAC field position varies between template versions:
// field 2 is checked for separator characters first, falling back to field 1
// when field 2 does not look like a MAC. Records with fewer than three
// fields are dropped.
func (b *Bindings) AddARP(records []extract.Record) {
	for _, rec := range records {
		if len(rec) < 3 {
			log.Printf("Resolve: short ARP record %v, dropped", rec)
			continue
		}

		ip := rec[0]
		var mac string
		switch {
		case strings.ContainsAny(rec[2], ":."):
			mac = rec[2]
		case domain.LooksLikeMAC(rec[1]):
			mac = rec[1]
		default:
			log.Printf("Resolve: no MAC candidate in ARP record %v, dropped", rec)
			continue
		}

		b.add(mac, ip)
	}
}

// overlayWindow is how many tokens on each side of a MAC are searched for
// its advertised IP.
const overlayWindow = 3

// AddOverlay scans raw overlay output for MAC/IP advertisements. Only lines
// containing "mac" are considered. Each MAC-looking token is paired with the
// first dotted-quad IPv4 token within three tokens on either side; the first
// pairing on a line wins and the rest of the line is skipped.
func (b *Bindings) AddOverlay(raw string) {
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(strings.ToLower(line), "mac") {
			continue
		}

		tokens := strings.Fields(line)
		b.scanOverlayLine(tokens)
	}
}

func (b *Bindings) scanOverlayLine(tokens []string) {
	for i, tok := range tokens {
		// Strict shape test: overlay lines carry route distinguishers and
		// IP addresses whose separators would fool the permissive check.
		if !domain.IsMACShaped(tok) || domain.IsIPv4(tok) {
			continue
		}

		lo := i - overlayWindow
		if lo < 0 {
			lo = 0
		}
		hi := i + overlayWindow
		if hi > len(tokens)-1 {
			hi = len(tokens) - 1
		}

		for j := lo; j <= hi; j++ {
			if j == i {
				continue
			}
			if domain.IsIPv4(tokens[j]) {
				b.add(tok, tokens[j])
				return
			}
		}
	}
}
