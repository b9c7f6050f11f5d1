// Package run orchestrates a full collection and correlation pass.
//
// A run is two sequential phases over two device lists: the L2 phase builds
// the MAC forwarding table switch by switch, the L3 phase builds address
// bindings from ARP tables or, in overlay mode, from EVPN advertisements.
// Devices are visited one at a time in input-list order; a failing device
// is logged and skipped, never fatal. Every session opened during a phase
// is released when the phase ends, whatever happened mid-phase.
package run

import (
	"context"
	"errors"
	"log"

	"mactrace/internal/correlate"
	"mactrace/internal/domain"
	"mactrace/internal/extract"
	"mactrace/internal/probe"
	"mactrace/internal/resolve"
	"mactrace/internal/session"
	"mactrace/internal/snmpfallback"
	"mactrace/internal/table"
)

// Session is the per-device command execution surface a phase needs.
type Session interface {
	Execute(command string) (string, error)
	Close() error
}

// Dialer opens sessions to devices.
type Dialer interface {
	Dial(ctx context.Context, host string) (Session, error)
}

// sshDialer adapts *session.Dialer to the Dialer interface.
type sshDialer struct {
	d *session.Dialer
}

func (s sshDialer) Dial(ctx context.Context, host string) (Session, error) {
	return s.d.Dial(ctx, host)
}

// NewSSHDialer wraps the SSH dialer for use by a Runner.
func NewSSHDialer(d *session.Dialer) Dialer {
	return sshDialer{d: d}
}

// Options configures a Runner beyond its collaborators.
type Options struct {
	// Template IDs used for extraction per task.
	MacTemplate string
	ArpTemplate string
	// Overlay switches the resolution phase from ARP tables to EVPN
	// advertisement scanning.
	Overlay bool
	// SNMPCommunity enables the BRIDGE-MIB fallback for L2 devices whose
	// CLI probing is exhausted. Empty disables the fallback.
	SNMPCommunity string
	SNMPPort      uint16
	// InterfacePrefixes overrides the port-token heuristic of the table
	// builder.
	InterfacePrefixes []string
}

// Runner executes collection phases against a device fleet.
type Runner struct {
	dialer Dialer
	prober *probe.Prober
	engine extract.Engine
	opts   Options
}

// NewRunner creates a runner from its collaborators.
func NewRunner(dialer Dialer, prober *probe.Prober, engine extract.Engine, opts Options) *Runner {
	if opts.MacTemplate == "" {
		opts.MacTemplate = "cisco_ios_show_mac_address_table"
	}
	if opts.ArpTemplate == "" {
		opts.ArpTemplate = "cisco_ios_show_ip_arp"
	}
	return &Runner{
		dialer: dialer,
		prober: prober,
		engine: engine,
		opts:   opts,
	}
}

// CollectMACTables runs the L2 phase: one device at a time, in list order.
func (r *Runner) CollectMACTables(ctx context.Context, hosts []string) *table.Builder {
	builder := table.NewBuilder()
	builder.SetInterfacePrefixes(r.opts.InterfacePrefixes)

	var open []Session
	defer func() {
		// Unconditional cleanup: every session opened during the phase is
		// released here regardless of which devices succeeded.
		for _, s := range open {
			s.Close()
		}
	}()

	for _, host := range hosts {
		sess, err := r.dialer.Dial(ctx, host)
		if err != nil {
			log.Printf("Run: connect %s failed: %v", host, err)
			continue
		}
		open = append(open, sess)

		output, err := r.prober.Probe(sess, probe.MacTableFetch)
		if err != nil {
			if errors.Is(err, probe.ErrProbeExhausted) {
				log.Printf("Run: %s: %v", host, err)
				r.snmpFallback(host, builder)
				continue
			}
			log.Printf("Run: probe %s failed: %v", host, err)
			continue
		}

		records, err := r.engine.Parse(output, r.opts.MacTemplate)
		if err != nil {
			log.Printf("Run: extract MAC table from %s: %v", host, err)
			continue
		}

		before := builder.Len()
		builder.Add(records, r.engine.Schema(r.opts.MacTemplate), host)
		log.Printf("Run: %s contributed %d new MACs (%d rows)", host, builder.Len()-before, len(records))
	}

	return builder
}

// snmpFallback collects a forwarding table over SNMP when CLI probing gave
// nothing. Enabled by a configured community string.
func (r *Runner) snmpFallback(host string, builder *table.Builder) {
	if r.opts.SNMPCommunity == "" {
		return
	}

	client := snmpfallback.NewClient(host, r.opts.SNMPPort, r.opts.SNMPCommunity)
	if err := client.Connect(); err != nil {
		log.Printf("Run: SNMP fallback connect %s: %v", host, err)
		return
	}
	defer client.Close()

	entries, err := client.CollectForwardingTable()
	if err != nil {
		log.Printf("Run: SNMP fallback walk %s: %v", host, err)
		return
	}

	for _, e := range entries {
		builder.Insert(e)
	}
	log.Printf("Run: SNMP fallback on %s contributed %d entries", host, len(entries))
}

// ResolveAddresses runs the L3 phase, producing address bindings from ARP
// tables or overlay advertisements depending on the run mode.
func (r *Runner) ResolveAddresses(ctx context.Context, hosts []string) *resolve.Bindings {
	bindings := resolve.NewBindings()

	var open []Session
	defer func() {
		for _, s := range open {
			s.Close()
		}
	}()

	for _, host := range hosts {
		sess, err := r.dialer.Dial(ctx, host)
		if err != nil {
			log.Printf("Run: connect %s failed: %v", host, err)
			continue
		}
		open = append(open, sess)

		if r.opts.Overlay {
			output, err := r.prober.Probe(sess, probe.OverlayBindingFetch)
			if err != nil {
				log.Printf("Run: %s: %v", host, err)
				continue
			}
			before := bindings.Len()
			bindings.AddOverlay(output)
			log.Printf("Run: %s contributed %d overlay bindings", host, bindings.Len()-before)
			continue
		}

		output, err := r.prober.Probe(sess, probe.ArpTableFetch)
		if err != nil {
			log.Printf("Run: %s: %v", host, err)
			continue
		}

		records, err := r.engine.Parse(output, r.opts.ArpTemplate)
		if err != nil {
			log.Printf("Run: extract ARP table from %s: %v", host, err)
			continue
		}

		before := bindings.Len()
		bindings.AddARP(records)
		log.Printf("Run: %s contributed %d ARP bindings (%d rows)", host, bindings.Len()-before, len(records))
	}

	return bindings
}

// Execute performs both phases and the correlation join.
func (r *Runner) Execute(ctx context.Context, l2Hosts, l3Hosts []string) ([]domain.CorrelatedRecord, *table.Builder) {
	builder := r.CollectMACTables(ctx, l2Hosts)
	log.Printf("Run: collected %d distinct MACs from %d L2 devices", builder.Len(), len(l2Hosts))

	bindings := r.ResolveAddresses(ctx, l3Hosts)
	log.Printf("Run: resolved %d address bindings from %d L3 devices", bindings.Len(), len(l3Hosts))

	records := correlate.Correlate(builder.Entries(), bindings.List())
	log.Printf("Run: correlated %d records", len(records))

	return records, builder
}
