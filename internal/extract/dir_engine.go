package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// templateFile is the on-disk YAML shape of a row template.
type templateFile struct {
	ID     string   `yaml:"id"`
	Fields []string `yaml:"fields"`
	Rows   []string `yaml:"rows"`
	Schema *Schema  `yaml:"schema,omitempty"`
}

// template is a compiled row template.
type template struct {
	id     string
	fields []string
	rows   []*regexp.Regexp
	schema *Schema
}

// DirEngine is an Engine that loads YAML row templates from a directory.
// A template with id X lives in X.yaml; each entry in its rows list is a
// regular expression whose capture groups become the record fields. Lines
// that match no row pattern are skipped, so headers and footers fall out
// naturally and a structural mismatch yields an empty record set rather
// than garbage rows.
type DirEngine struct {
	dir string

	mu    sync.Mutex
	cache map[string]*template
}

// NewDirEngine creates an engine reading templates from dir. Templates are
// loaded lazily and cached.
func NewDirEngine(dir string) *DirEngine {
	return &DirEngine{
		dir:   dir,
		cache: make(map[string]*template),
	}
}

func (e *DirEngine) load(templateID string) (*template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tpl, ok := e.cache[templateID]; ok {
		return tpl, nil
	}

	path := filepath.Join(e.dir, templateID+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", templateID, ErrTemplateNotFound)
		}
		return nil, fmt.Errorf("read template %s: %w", templateID, err)
	}

	var tf templateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", templateID, err)
	}
	if len(tf.Rows) == 0 {
		return nil, fmt.Errorf("template %s declares no row patterns", templateID)
	}

	tpl := &template{
		id:     templateID,
		fields: tf.Fields,
		schema: tf.Schema,
	}
	for _, pattern := range tf.Rows {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("template %s: bad row pattern %q: %w", templateID, pattern, err)
		}
		tpl.rows = append(tpl.rows, re)
	}

	e.cache[templateID] = tpl
	return tpl, nil
}

// Parse extracts records from raw output using the named template.
func (e *DirEngine) Parse(raw string, templateID string) ([]Record, error) {
	tpl, err := e.load(templateID)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, re := range tpl.rows {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			// Capture groups only; m[0] is the whole line.
			records = append(records, Record(m[1:]))
			break
		}
	}

	return records, nil
}

// Schema returns the template's declared fixed layout, if any.
func (e *DirEngine) Schema(templateID string) *Schema {
	tpl, err := e.load(templateID)
	if err != nil {
		return nil
	}
	return tpl.schema
}
