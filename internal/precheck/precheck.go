// Package precheck runs an optional reachability sweep over the device
// lists before any SSH contact, so runs against large fleets do not spend
// a connect timeout per dead device.
//
// The sweep is advisory and fails open: if nmap is unavailable or a scan
// errors, the affected hosts stay in the list and the SSH phase deals with
// them the slow way.
package precheck

import (
	"context"
	"log"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"
)

// Prechecker filters device lists down to hosts that answer a ping scan.
type Prechecker struct {
	timeout time.Duration
}

// Option configures a Prechecker.
type Option func(*Prechecker)

// WithTimeout sets the per-sweep timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prechecker) {
		p.timeout = d
	}
}

// New creates a prechecker.
func New(opts ...Option) *Prechecker {
	p := &Prechecker{
		timeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Filter returns the hosts that answered the sweep, preserving input
// order. On sweep failure the input list is returned unchanged.
func (p *Prechecker) Filter(ctx context.Context, hosts []string) []string {
	if len(hosts) == 0 {
		return hosts
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	scanner, err := nmap.NewScanner(
		ctx,
		nmap.WithTargets(hosts...),
		nmap.WithPingScan(),
	)
	if err != nil {
		log.Printf("Precheck: scanner unavailable, keeping all hosts: %v", err)
		return hosts
	}

	result, warnings, err := scanner.Run()
	if err != nil {
		log.Printf("Precheck: sweep failed, keeping all hosts: %v", err)
		return hosts
	}
	if warnings != nil && len(*warnings) > 0 {
		log.Printf("Precheck: warnings: %v", *warnings)
	}

	up := make(map[string]bool)
	for _, h := range result.Hosts {
		if h.Status.State != "up" {
			continue
		}
		for _, name := range h.Hostnames {
			up[name.Name] = true
		}
		for _, addr := range h.Addresses {
			up[addr.Addr] = true
		}
	}

	return aliveHosts(hosts, up)
}

// aliveHosts filters the input list against the sweep result, preserving
// order. A sweep that reports nothing up at all is more likely a scanning
// problem than a dead fleet, so the full list is kept in that case.
func aliveHosts(hosts []string, up map[string]bool) []string {
	var alive []string
	for _, host := range hosts {
		if up[host] {
			alive = append(alive, host)
		} else {
			log.Printf("Precheck: %s did not answer, skipping", host)
		}
	}

	if len(alive) == 0 {
		log.Printf("Precheck: no hosts answered, keeping all %d hosts", len(hosts))
		return hosts
	}

	return alive
}
