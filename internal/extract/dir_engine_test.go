package extract

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const macTableTemplate = `id: test_mac_table
fields: [vlan, mac, type, port]
rows:
  - '^\s*(\d+)\s+([0-9a-fA-F]{4}\.[0-9a-fA-F]{4}\.[0-9a-fA-F]{4})\s+(\S+)\s+(\S+)\s*$'
schema:
  field_count: 4
  vlan_index: 0
  mac_index: 1
  port_index: 3
`

func writeTemplate(t *testing.T, dir, id, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, id+".yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestDirEngineParse(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "test_mac_table", macTableTemplate)

	raw := `          Mac Address Table
-------------------------------------------

Vlan    Mac Address       Type        Ports
----    -----------       --------    -----
   1    aabb.ccdd.eeff    DYNAMIC     Gi0/1
  10    1122.3344.5566    STATIC      Po1
Total Mac Addresses for this criterion: 2
`

	engine := NewDirEngine(dir)
	records, err := engine.Parse(raw, "test_mac_table")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Record{
		{"1", "aabb.ccdd.eeff", "DYNAMIC", "Gi0/1"},
		{"10", "1122.3344.5566", "STATIC", "Po1"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Parse() = %v, want %v", records, want)
	}
}

func TestDirEngineStructuralMismatch(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "test_mac_table", macTableTemplate)

	engine := NewDirEngine(dir)
	records, err := engine.Parse("% Invalid input detected\nsome banner text\n", "test_mac_table")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Parse() on mismatched output = %v, want empty", records)
	}
}

func TestDirEngineTemplateNotFound(t *testing.T) {
	engine := NewDirEngine(t.TempDir())
	_, err := engine.Parse("anything", "no_such_template")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Parse() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestDirEngineSchema(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "test_mac_table", macTableTemplate)

	engine := NewDirEngine(dir)
	schema := engine.Schema("test_mac_table")
	if schema == nil {
		t.Fatal("Schema() = nil, want declared schema")
	}
	if schema.FieldCount != 4 || schema.VlanIndex != 0 || schema.MacIndex != 1 || schema.PortIndex != 3 {
		t.Errorf("Schema() = %+v", schema)
	}

	if got := engine.Schema("no_such_template"); got != nil {
		t.Errorf("Schema() for missing template = %+v, want nil", got)
	}
}

// TestBundledTemplates parses representative vendor output with the
// templates shipped in the repository's templates directory.
func TestBundledTemplates(t *testing.T) {
	engine := NewDirEngine("../../templates")

	t.Run("ios mac table", func(t *testing.T) {
		raw := "   1    aabb.ccdd.eeff    DYNAMIC     Gi0/1\n"
		records, err := engine.Parse(raw, "cisco_ios_show_mac_address_table")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		want := []Record{{"1", "aabb.ccdd.eeff", "DYNAMIC", "Gi0/1"}}
		if !reflect.DeepEqual(records, want) {
			t.Errorf("Parse() = %v, want %v", records, want)
		}
	})

	t.Run("nxos mac table", func(t *testing.T) {
		raw := "* 10     aabb.ccdd.eeff   dynamic  0         F      F    Eth1/1\n"
		records, err := engine.Parse(raw, "cisco_nxos_show_mac_address_table")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(records) != 1 || len(records[0]) != 7 {
			t.Fatalf("Parse() = %v, want one 7-field record", records)
		}
		if records[0][0] != "10" || records[0][1] != "aabb.ccdd.eeff" || records[0][6] != "Eth1/1" {
			t.Errorf("Parse() = %v", records[0])
		}
	})

	t.Run("ios arp table", func(t *testing.T) {
		raw := "Internet  10.0.0.5          4   aabb.ccdd.eeff  ARPA   Vlan10\n"
		records, err := engine.Parse(raw, "cisco_ios_show_ip_arp")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Parse() = %v, want one record", records)
		}
		if records[0][0] != "10.0.0.5" || records[0][2] != "aabb.ccdd.eeff" {
			t.Errorf("Parse() = %v", records[0])
		}
	})
}
