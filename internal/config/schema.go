package config

// Config is the root configuration structure. Everything here has a usable
// default; the file only exists to tune fleets with odd platforms.
type Config struct {
	Version   int             `yaml:"version"`
	Session   SessionConfig   `yaml:"session"`
	Probe     ProbeConfig     `yaml:"probe,omitempty"`
	Templates TemplatesConfig `yaml:"templates"`
	Table     TableConfig     `yaml:"table,omitempty"`
	SNMP      SNMPConfig      `yaml:"snmp,omitempty"`
}

// SessionConfig tunes device connections.
type SessionConfig struct {
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds"`
	CommandTimeoutSeconds int `yaml:"command_timeout_seconds"`
}

// ProbeConfig replaces the built-in command variant lists per task. Empty
// lists keep the defaults.
type ProbeConfig struct {
	MacTableCommands []string `yaml:"mac_table_commands,omitempty"`
	ArpTableCommands []string `yaml:"arp_table_commands,omitempty"`
	OverlayCommands  []string `yaml:"overlay_commands,omitempty"`
}

// TemplatesConfig names the extraction templates used per task.
type TemplatesConfig struct {
	MacTable string `yaml:"mac_table"`
	ArpTable string `yaml:"arp_table"`
}

// TableConfig tunes the MAC table builder's heuristics.
type TableConfig struct {
	InterfacePrefixes []string `yaml:"interface_prefixes,omitempty"`
}

// SNMPConfig configures the BRIDGE-MIB fallback collector. The fallback is
// enabled by a non-empty community string (config or flag).
type SNMPConfig struct {
	Community string `yaml:"community,omitempty"`
	Port      uint16 `yaml:"port,omitempty"`
}
