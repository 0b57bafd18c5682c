package features

import "fmt"

// BaselineTemplate is the one-row reference record supplying defaults for
// every column the classifier expects. It is never mutated after
// construction; Row hands out copies.
type BaselineTemplate struct {
	row FeatureRow
}

// NewBaselineTemplate wraps a row; the row is copied so later changes by the
// caller cannot leak in
func NewBaselineTemplate(row FeatureRow) (*BaselineTemplate, error) {
	if row.Len() == 0 {
		return nil, fmt.Errorf("baseline template has no columns")
	}
	return &BaselineTemplate{row: row.Clone()}, nil
}

// Row returns a copy of the baseline row
func (b *BaselineTemplate) Row() FeatureRow {
	return b.row.Clone()
}

// Names returns the baseline column names
func (b *BaselineTemplate) Names() []string {
	return b.row.Names()
}

// Len returns the number of baseline columns
func (b *BaselineTemplate) Len() int {
	return b.row.Len()
}

// Overlay copies the baseline and overwrites exactly the twelve
// user-controlled columns. Columns the baseline lacks are appended.
func Overlay(baseline *BaselineTemplate, inputs UserInputs) FeatureRow {
	row := baseline.Row()
	for _, a := range inputs.Assignments() {
		row.Set(a.Key, a.Value)
	}
	return row
}
