// Command mactrace correlates switch forwarding tables with router address
// resolution state, producing a CSV that maps each endpoint MAC to its IP,
// owning switch, port and VLAN.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"time"

	"mactrace/internal/config"
	"mactrace/internal/domain"
	"mactrace/internal/extract"
	"mactrace/internal/inventory"
	"mactrace/internal/precheck"
	"mactrace/internal/probe"
	"mactrace/internal/report"
	"mactrace/internal/run"
	"mactrace/internal/session"
)

func main() {
	hostnames := flag.String("hostnames", "", "file containing L2 device hostnames, one per line")
	upstream := flag.String("upstream", "", "file containing L3 device hostnames, one per line")
	credentials := flag.String("credentials", "", "file containing username and password lines")
	templates := flag.String("templates", "templates", "directory containing extraction templates")
	output := flag.String("output", "output.csv", "output CSV file path")
	vxlan := flag.Bool("vxlan", false, "resolve addresses from EVPN advertisements instead of ARP tables")
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	doPrecheck := flag.Bool("precheck", false, "ping-sweep device lists before connecting")
	dbPath := flag.String("db", "", "SQLite run archive path (empty: archiving disabled)")
	snmpCommunity := flag.String("snmp-community", "", "enable SNMP forwarding-table fallback with this community")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if *hostnames == "" || *upstream == "" || *credentials == "" {
		log.Fatal("required flags: -hostnames, -upstream, -credentials")
	}

	// Config file, if any, tunes timeouts, command lists and heuristics.
	var cfg *config.Config
	var cfgPath string
	var err error
	if *configPath != "" {
		cfg, cfgPath, err = config.LoadFromPath(*configPath)
	} else {
		cfg, cfgPath, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", cfgPath, err)
	}
	if cfgPath != "" {
		log.Printf("Config loaded from %s", cfgPath)
	}

	// Inputs are fatal before any device contact is attempted.
	l2Hosts, err := config.LoadHostList(*hostnames)
	if err != nil {
		log.Fatalf("No L2 devices: %v", err)
	}
	l3Hosts, err := config.LoadHostList(*upstream)
	if err != nil {
		log.Fatalf("No L3 devices: %v", err)
	}
	creds, err := config.LoadCredentials(*credentials)
	if err != nil {
		log.Fatalf("No valid credentials: %v", err)
	}

	ctx := context.Background()

	if *doPrecheck {
		checker := precheck.New()
		l2Hosts = checker.Filter(ctx, l2Hosts)
		l3Hosts = checker.Filter(ctx, l3Hosts)
		log.Printf("Precheck: %d L2 and %d L3 devices reachable", len(l2Hosts), len(l3Hosts))
	}

	dialer := session.NewDialer(creds, session.DialerConfig{
		ConnectTimeout: time.Duration(cfg.Session.ConnectTimeoutSeconds) * time.Second,
		CommandTimeout: time.Duration(cfg.Session.CommandTimeoutSeconds) * time.Second,
	})

	prober := probe.NewProber()
	prober.Override(probe.MacTableFetch, cfg.Probe.MacTableCommands)
	prober.Override(probe.ArpTableFetch, cfg.Probe.ArpTableCommands)
	prober.Override(probe.OverlayBindingFetch, cfg.Probe.OverlayCommands)

	engine := extract.NewDirEngine(*templates)

	community := *snmpCommunity
	if community == "" {
		community = cfg.SNMP.Community
	}

	runner := run.NewRunner(run.NewSSHDialer(dialer), prober, engine, run.Options{
		MacTemplate:       cfg.Templates.MacTable,
		ArpTemplate:       cfg.Templates.ArpTable,
		Overlay:           *vxlan,
		SNMPCommunity:     community,
		SNMPPort:          cfg.SNMP.Port,
		InterfacePrefixes: cfg.Table.InterfacePrefixes,
	})

	startedAt := time.Now()
	records, builder := runner.Execute(ctx, l2Hosts, l3Hosts)

	if err := report.WriteMACList("mac_addresses.txt", builder.Macs()); err != nil {
		log.Printf("Failed to write MAC list: %v", err)
	}

	hosts, order := run.ResolveHostnames(ctx, net.DefaultResolver, records)
	if err := report.WriteHostsFile("hosts.txt", hosts, order); err != nil {
		log.Printf("Failed to write hosts file: %v", err)
	}

	if err := report.WriteCSV(*output, records); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	log.Printf("Process completed. %d records written to %s", len(records), *output)

	if *dbPath != "" {
		archiveRun(ctx, *dbPath, startedAt, *vxlan, len(l2Hosts), len(l3Hosts), records)
	}
}

// archiveRun stores the finished run in the SQLite archive. Archive
// failures are logged, never fatal: the CSV is already on disk.
func archiveRun(ctx context.Context, dbPath string, startedAt time.Time, overlay bool, l2, l3 int, records []domain.CorrelatedRecord) {
	store, err := inventory.New(dbPath)
	if err != nil {
		log.Printf("Failed to open run archive: %v", err)
		return
	}
	defer store.Close()

	mode := "arp"
	if overlay {
		mode = "overlay"
	}

	runID, err := store.SaveRun(ctx, inventory.RunSummary{
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Mode:       mode,
		L2Devices:  l2,
		L3Devices:  l3,
	}, records)
	if err != nil {
		log.Printf("Failed to archive run: %v", err)
		return
	}
	log.Printf("Archived run %d (%d records)", runID, len(records))
}
