package features

import (
	"fmt"
	"math"
)

// FeatureRow is an ordered mapping from feature name to value.
// Column order follows the baseline artifact.
type FeatureRow struct {
	names  []string
	index  map[string]int
	values []float64
}

// NewFeatureRow builds a row from parallel name/value slices
func NewFeatureRow(names []string, values []float64) (FeatureRow, error) {
	if len(names) != len(values) {
		return FeatureRow{}, fmt.Errorf("feature row has %d names but %d values", len(names), len(values))
	}

	row := FeatureRow{
		names:  make([]string, 0, len(names)),
		index:  make(map[string]int, len(names)),
		values: make([]float64, 0, len(values)),
	}

	for i, name := range names {
		if name == "" {
			return FeatureRow{}, fmt.Errorf("feature column %d has an empty name", i)
		}
		if _, dup := row.index[name]; dup {
			return FeatureRow{}, fmt.Errorf("duplicate feature column %q", name)
		}
		row.index[name] = len(row.names)
		row.names = append(row.names, name)
		row.values = append(row.values, values[i])
	}

	return row, nil
}

// Len returns the number of columns
func (r FeatureRow) Len() int {
	return len(r.names)
}

// Names returns the column names in order
func (r FeatureRow) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has reports whether the row carries the named column
func (r FeatureRow) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Get returns the value of a column
func (r FeatureRow) Get(name string) (float64, bool) {
	i, ok := r.index[name]
	if !ok {
		return 0, false
	}
	return r.values[i], true
}

// Set overwrites a column, appending it when the row does not carry it yet.
// Set mutates the receiver; callers that share a row must Clone first.
func (r *FeatureRow) Set(name string, value float64) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[name]; ok {
		r.values[i] = value
		return
	}
	r.index[name] = len(r.names)
	r.names = append(r.names, name)
	r.values = append(r.values, value)
}

// Clone returns a deep copy
func (r FeatureRow) Clone() FeatureRow {
	out := FeatureRow{
		names:  make([]string, len(r.names)),
		index:  make(map[string]int, len(r.index)),
		values: make([]float64, len(r.values)),
	}
	copy(out.names, r.names)
	copy(out.values, r.values)
	for k, v := range r.index {
		out.index[k] = v
	}
	return out
}

// Values returns the values for the requested columns in the requested order.
// Missing columns are reported by name.
func (r FeatureRow) Values(order []string) ([]float64, []string) {
	out := make([]float64, len(order))
	var missing []string
	for i, name := range order {
		v, ok := r.Get(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		out[i] = v
	}
	return out, missing
}

// Map returns the row as a plain map
func (r FeatureRow) Map() map[string]float64 {
	out := make(map[string]float64, len(r.names))
	for i, name := range r.names {
		out[name] = r.values[i]
	}
	return out
}

// Equal reports bit-identical rows: same columns, same order, same value bits
func (r FeatureRow) Equal(other FeatureRow) bool {
	if len(r.names) != len(other.names) {
		return false
	}
	for i, name := range r.names {
		if other.names[i] != name {
			return false
		}
		if math.Float64bits(r.values[i]) != math.Float64bits(other.values[i]) {
			return false
		}
	}
	return true
}

// Diff lists the columns whose values differ between two rows, in the
// receiver's column order. Columns present in only one row are included.
func (r FeatureRow) Diff(other FeatureRow) []string {
	var out []string
	for i, name := range r.names {
		v, ok := other.Get(name)
		if !ok || math.Float64bits(v) != math.Float64bits(r.values[i]) {
			out = append(out, name)
		}
	}
	for _, name := range other.names {
		if !r.Has(name) {
			out = append(out, name)
		}
	}
	return out
}
