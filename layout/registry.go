package layout

import (
	"errors"
)

// Row is a parameter row with its control assignment.
type Row struct {
	Param

	// ControlType is empty when the row has no widget.
	ControlType ControlType `json:"control_type"`
	Index       int         `json:"control_index"`
	Address     string      `json:"address"`
	Mode        string      `json:"mode"`

	Rect   Rect `json:"rect"`
	Placed bool `json:"placed"`
}

// ModeFunc returns the publication mode for the named parameter.
type ModeFunc func(name string) string

// Registry owns the ordered control assignments. It is rebuilt wholesale
// by Load; callers serialize Load and Layout against lookups.
type Registry struct {
	limits Limits
	rows   []Row
}

// NewRegistry returns an empty registry. Types missing from limits have
// no widgets available.
func NewRegistry(limits Limits) *Registry {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Registry{limits: limits}
}

// Limit returns the capacity of ct.
func (r *Registry) Limit(ct ControlType) int {
	return r.limits[ct]
}

// Load classifies, indexes and addresses params, replacing the previous
// contents. Rows whose index exceeds the capacity of their type are left
// out; each one is reported as a *CapacityError in the joined result.
// Params are expected to be filtered with FilterSupported.
func (r *Registry) Load(params []Param, mode ModeFunc) error {
	rows := make([]Row, 0, len(params))
	idx := newIndexer()

	var errs []error
	for i, p := range params {
		row := Row{Param: p}
		ct := Classify(params, i)
		if ct == "" {
			rows = append(rows, row)
			continue
		}

		index := idx.next(ct)
		if limit := r.limits[ct]; index > limit {
			errs = append(errs, &CapacityError{Name: p.Name, Type: ct, Index: index, Limit: limit})
			continue
		}

		row.ControlType = ct
		row.Index = index
		row.Address = Address(ct, index)
		if mode != nil {
			row.Mode = mode(p.Name)
		}
		rows = append(rows, row)
	}

	r.rows = rows
	return errors.Join(errs...)
}

// Len returns the number of rows.
func (r *Registry) Len() int {
	return len(r.rows)
}

// Rows returns a copy of the rows in table order.
func (r *Registry) Rows() []Row {
	return append([]Row(nil), r.rows...)
}

// At returns the row at position i.
func (r *Registry) At(i int) Row {
	return r.rows[i]
}

// Find returns the name of the first row assigned to (ct, index).
func (r *Registry) Find(ct ControlType, index int) (string, bool) {
	for _, row := range r.rows {
		if row.ControlType == ct && row.Index == index {
			return row.Name, true
		}
	}
	return "", false
}

// Lookup returns the first row for the named parameter and its position.
func (r *Registry) Lookup(name string) (Row, int, bool) {
	for i, row := range r.rows {
		if row.Name == name {
			return row, i, true
		}
	}
	return Row{}, -1, false
}

// Group returns the rows sharing the control of the named parameter, in
// table order.
func (r *Registry) Group(name string) []Row {
	row, _, ok := r.Lookup(name)
	if !ok || row.ControlType == "" {
		return nil
	}
	var group []Row
	for _, other := range r.rows {
		if other.ControlType == row.ControlType && other.Index == row.Index {
			group = append(group, other)
		}
	}
	return group
}

// SetMode replaces the mode of every row of the named parameter.
func (r *Registry) SetMode(name, mode string) bool {
	found := false
	for i, row := range r.rows {
		if row.Name != name {
			continue
		}
		row.Mode = mode
		r.rows[i] = row
		found = true
	}
	return found
}

// Controls returns the number of rows with a control type.
func (r *Registry) Controls() int {
	n := 0
	for _, row := range r.rows {
		if row.ControlType != "" {
			n++
		}
	}
	return n
}
