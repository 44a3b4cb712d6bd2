package param

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/from-vacuum/basic-touch/layout"
)

// Entry is one parameter of a table file.
type Entry struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Style    string   `yaml:"style"`
	Size     int      `yaml:"size"`
	Mode     string   `yaml:"mode"`
	ReadOnly bool     `yaml:"readonly"`
	Enabled  *bool    `yaml:"enabled"`
	Min      float64  `yaml:"min"`
	Max      float64  `yaml:"max"`
	Value    float64  `yaml:"value"`
	Menu     []string `yaml:"menu"`
}

// PresetEntry is a stored set of values, normalized for numbers, menu
// indices for menus and 0 or 1 for switches.
type PresetEntry struct {
	Name   string             `yaml:"name"`
	Values map[string]float64 `yaml:"values"`
}

// Table is the parameter table file.
type Table struct {
	Parameters []Entry       `yaml:"parameters"`
	Presets    []PresetEntry `yaml:"presets"`
}

// LoadTable reads a table from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read parameter table %s", path)
	}
	t, err := ParseTable(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parameter table %s", path)
	}
	return t, nil
}

// ParseTable decodes and checks a YAML table. Missing labels default to
// the name, missing sizes to 1 and missing modes to constant.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}

	seen := make(map[string]bool, len(t.Parameters))
	for i := range t.Parameters {
		e := &t.Parameters[i]
		if e.Name == "" {
			return nil, errors.Errorf("parameter %d has no name", i+1)
		}
		if seen[e.Name] {
			return nil, errors.Errorf("duplicate parameter %q", e.Name)
		}
		seen[e.Name] = true

		if e.Label == "" {
			e.Label = e.Name
		}
		if e.Size == 0 {
			e.Size = 1
		}
		if e.Mode == "" {
			e.Mode = ModeConstant
		}
		if e.Max == e.Min {
			e.Max = e.Min + 1
		}
	}
	for _, p := range t.Presets {
		for name := range p.Values {
			if !seen[name] {
				return nil, errors.Errorf("preset %q sets unknown parameter %q", p.Name, name)
			}
		}
	}
	return &t, nil
}

// Params returns the table rows in order for the layout registry.
func (t *Table) Params() []layout.Param {
	params := make([]layout.Param, 0, len(t.Parameters))
	for _, e := range t.Parameters {
		params = append(params, layout.Param{
			Name:  e.Name,
			Label: e.Label,
			Style: layout.Style(e.Style),
			Size:  e.Size,
		})
	}
	return params
}

// groups chunks consecutive entries into tuples of their size.
func (t *Table) groups() map[string][]string {
	groups := make(map[string][]string, len(t.Parameters))
	for i := 0; i < len(t.Parameters); {
		n := t.Parameters[i].Size
		if n < 1 {
			n = 1
		}
		end := i + n
		if end > len(t.Parameters) {
			end = len(t.Parameters)
		}
		names := make([]string, 0, end-i)
		for _, e := range t.Parameters[i:end] {
			names = append(names, e.Name)
		}
		for _, name := range names {
			groups[name] = names
		}
		i = end
	}
	return groups
}
