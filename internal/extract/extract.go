// Package extract turns raw command output into ordered field records.
//
// The real work is delegated to a template engine behind the Engine
// interface; the bundled implementation loads declarative YAML row
// templates from a directory. The field layout of a record depends on
// which template matched, so templates may also publish a fixed schema
// (field count plus vlan/mac/port indexes) that downstream builders can
// trust when the field count matches.
package extract

import "errors"

// Record is one extracted table row: an ordered sequence of string fields.
// Field meaning depends on the template that produced it.
type Record []string

// ErrTemplateNotFound is returned when the requested template does not
// exist in the engine's template set.
var ErrTemplateNotFound = errors.New("template not found")

// Schema documents a template's fixed field layout. When a record's field
// count equals FieldCount the indexes below can be read positionally;
// otherwise the caller must fall back to heuristic field detection.
type Schema struct {
	FieldCount int `yaml:"field_count"`
	VlanIndex  int `yaml:"vlan_index"`
	MacIndex   int `yaml:"mac_index"`
	PortIndex  int `yaml:"port_index"`
}

// Engine parses raw command output with a named template. Implementations
// return an empty record set on structural mismatch, never partial or
// garbage rows, and ErrTemplateNotFound when the template is missing.
type Engine interface {
	Parse(raw string, templateID string) ([]Record, error)

	// Schema returns the template's fixed field layout, or nil when the
	// template does not declare one (or does not exist).
	Schema(templateID string) *Schema
}
