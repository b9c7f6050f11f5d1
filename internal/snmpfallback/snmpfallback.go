// Package snmpfallback collects a device's forwarding table over SNMP when
// CLI probing is exhausted.
//
// Some access switches expose no usable CLI table but still answer the
// standard bridge MIBs. The collector walks Q-BRIDGE-MIB first (VLAN-aware,
// the common case) and falls back to BRIDGE-MIB, then resolves bridge port
// numbers to interface names through dot1dBasePortIfIndex and ifName.
package snmpfallback

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"mactrace/internal/domain"
)

// Bridge and interface MIB objects used by the collector.
const (
	oidDot1qTpFdbPort       = ".1.3.6.1.2.1.17.7.1.2.2.1.2" // Q-BRIDGE: <vlan>.<mac6> -> bridge port
	oidDot1dTpFdbPort       = ".1.3.6.1.2.1.17.4.3.1.2"     // BRIDGE: <mac6> -> bridge port
	oidDot1dBasePortIfIndex = ".1.3.6.1.2.1.17.1.4.1.2"     // bridge port -> ifIndex
	oidIfName               = ".1.3.6.1.2.1.31.1.1.1.1"     // ifIndex -> name
)

// Client walks the bridge MIBs of one device.
type Client struct {
	Target    string
	Port      uint16
	Community string
	Timeout   time.Duration
	Retries   int

	conn *gosnmp.GoSNMP
}

// NewClient creates a collector client with v2c defaults.
func NewClient(target string, port uint16, community string) *Client {
	if port == 0 {
		port = 161
	}
	if community == "" {
		community = "public"
	}
	return &Client{
		Target:    target,
		Port:      port,
		Community: community,
		Timeout:   5 * time.Second,
		Retries:   2,
	}
}

// Connect establishes the SNMP connection.
func (c *Client) Connect() error {
	c.conn = &gosnmp.GoSNMP{
		Target:    c.Target,
		Port:      c.Port,
		Community: c.Community,
		Version:   gosnmp.Version2c,
		Timeout:   c.Timeout,
		Retries:   c.Retries,
	}

	if err := c.conn.Connect(); err != nil {
		return fmt.Errorf("snmp connect %s:%d: %w", c.Target, c.Port, err)
	}
	return nil
}

// Close closes the SNMP connection.
func (c *Client) Close() error {
	if c.conn != nil && c.conn.Conn != nil {
		return c.conn.Conn.Close()
	}
	return nil
}

// CollectForwardingTable walks the device's forwarding database and returns
// one MacEntry per learned MAC, with interface names resolved where the
// device exposes them.
func (c *Client) CollectForwardingTable() ([]domain.MacEntry, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("not connected")
	}

	ifNames, err := c.interfaceNames()
	if err != nil {
		// Port resolution is best-effort; entries fall back to the raw
		// bridge port number.
		log.Printf("SNMP: interface name walk on %s failed: %v", c.Target, err)
	}

	entries, err := c.walkFdb(oidDot1qTpFdbPort, true, ifNames)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}

	// VLAN-unaware fallback for devices without Q-BRIDGE support.
	return c.walkFdb(oidDot1dTpFdbPort, false, ifNames)
}

// interfaceNames resolves bridge port number -> interface name.
func (c *Client) interfaceNames() (map[int]string, error) {
	byIfIndex := make(map[int]string)
	err := c.conn.BulkWalk(oidIfName, func(pdu gosnmp.SnmpPDU) error {
		idx, err := strconv.Atoi(strings.TrimPrefix(pdu.Name, oidIfName+"."))
		if err != nil {
			return nil
		}
		if b, ok := pdu.Value.([]byte); ok {
			byIfIndex[idx] = string(b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	byBridgePort := make(map[int]string)
	err = c.conn.BulkWalk(oidDot1dBasePortIfIndex, func(pdu gosnmp.SnmpPDU) error {
		port, err := strconv.Atoi(strings.TrimPrefix(pdu.Name, oidDot1dBasePortIfIndex+"."))
		if err != nil {
			return nil
		}
		if ifIdx, ok := toInt(pdu.Value); ok {
			if name, ok := byIfIndex[ifIdx]; ok {
				byBridgePort[port] = name
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return byBridgePort, nil
}

// walkFdb walks one forwarding database table. When vlanIndexed is true the
// OID suffix is <vlan>.<six MAC octets>, otherwise just the six octets.
func (c *Client) walkFdb(baseOID string, vlanIndexed bool, portNames map[int]string) ([]domain.MacEntry, error) {
	var entries []domain.MacEntry

	err := c.conn.BulkWalk(baseOID, func(pdu gosnmp.SnmpPDU) error {
		suffix := strings.TrimPrefix(pdu.Name, baseOID+".")
		mac, vlan, ok := parseFdbIndex(suffix, vlanIndexed)
		if !ok {
			return nil
		}

		port := ""
		if bridgePort, isInt := toInt(pdu.Value); isInt {
			if name, named := portNames[bridgePort]; named {
				port = name
			} else if bridgePort > 0 {
				port = "port" + strconv.Itoa(bridgePort)
			}
		}

		entries = append(entries, domain.NewMacEntry(mac, port, vlan, c.Target))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snmp walk %s on %s: %w", baseOID, c.Target, err)
	}

	return entries, nil
}

// parseFdbIndex decodes an FDB table index into a colon-form MAC and an
// optional VLAN.
func parseFdbIndex(suffix string, vlanIndexed bool) (mac, vlan string, ok bool) {
	parts := strings.Split(suffix, ".")
	if vlanIndexed {
		if len(parts) != 7 {
			return "", "", false
		}
		vlan = parts[0]
		parts = parts[1:]
	} else if len(parts) != 6 {
		return "", "", false
	}

	octets := make([]string, 6)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return "", "", false
		}
		octets[i] = fmt.Sprintf("%02x", n)
	}

	return strings.Join(octets, ":"), vlan, true
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case uint:
		return int(n), true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	default:
		return 0, false
	}
}
