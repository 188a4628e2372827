// Package dataset holds the immutable in-memory representation of a loaded
// survey or record file. A Dataset is built once at startup by the ingest
// layer and is read-only afterwards; every engine computation is a pure
// function over it.
package dataset

import (
	"fmt"
	"sort"
	"strings"
)

const (
	haveSuffix = "HaveWorkedWith"
	wantSuffix = "WantToWorkWith"
)

// NASentinel marks a non-respondent in a multi-value column. It is kept
// verbatim from the source file rather than normalized to "" so the two
// cases (column absent from the file vs respondent skipped the question)
// stay distinguishable while both count as missing.
const NASentinel = "NA"

// Category is a named technology category backed by a have/want column pair
// sharing one token vocabulary.
type Category struct {
	Name      string `json:"name"`
	HaveField string `json:"have_field"`
	WantField string `json:"want_field"`
}

// Schema declares the typed columns of a Dataset. Column kinds are fixed at
// construction; there is no runtime column creation or renaming.
type Schema struct {
	MultiValue []string
	Groups     []string
	Numeric    []string
}

// Record is one row handed to the Builder. Missing values are simply absent
// from the maps.
type Record struct {
	ID         string
	MultiValue map[string]string
	Groups     map[string]string
	Numeric    map[string]float64
}

// Dataset is a columnar, immutable table. Accessors return the backing
// slices directly; callers must not mutate them.
type Dataset struct {
	ids   []string
	multi map[string][]string
	group map[string][]string
	num   map[string][]float64
	numOK map[string][]bool

	groupFields []string
	categories  []Category
}

// Builder accumulates records and freezes them into a Dataset.
type Builder struct {
	schema Schema
	seen   map[string]struct{}
	recs   []Record
}

// NewBuilder validates the schema and returns an empty builder.
func NewBuilder(schema Schema) (*Builder, error) {
	all := make(map[string]struct{})
	for _, cols := range [][]string{schema.MultiValue, schema.Groups, schema.Numeric} {
		for _, c := range cols {
			if c == "" {
				return nil, fmt.Errorf("schema contains an empty column name")
			}
			if _, dup := all[c]; dup {
				return nil, fmt.Errorf("schema declares column %q twice", c)
			}
			all[c] = struct{}{}
		}
	}
	return &Builder{schema: schema, seen: make(map[string]struct{})}, nil
}

// Append adds one record. Record identifiers must be unique.
func (b *Builder) Append(rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record has an empty identifier")
	}
	if _, dup := b.seen[rec.ID]; dup {
		return fmt.Errorf("duplicate record identifier %q", rec.ID)
	}
	b.seen[rec.ID] = struct{}{}
	b.recs = append(b.recs, rec)
	return nil
}

// Build freezes the accumulated records into an immutable Dataset and
// discovers have/want category pairs from the multi-value column names.
func (b *Builder) Build() *Dataset {
	n := len(b.recs)
	d := &Dataset{
		ids:         make([]string, n),
		multi:       make(map[string][]string, len(b.schema.MultiValue)),
		group:       make(map[string][]string, len(b.schema.Groups)),
		num:         make(map[string][]float64, len(b.schema.Numeric)),
		numOK:       make(map[string][]bool, len(b.schema.Numeric)),
		groupFields: append([]string(nil), b.schema.Groups...),
	}
	for _, c := range b.schema.MultiValue {
		d.multi[c] = make([]string, n)
	}
	for _, c := range b.schema.Groups {
		d.group[c] = make([]string, n)
	}
	for _, c := range b.schema.Numeric {
		d.num[c] = make([]float64, n)
		d.numOK[c] = make([]bool, n)
	}

	for i, rec := range b.recs {
		d.ids[i] = rec.ID
		for _, c := range b.schema.MultiValue {
			d.multi[c][i] = rec.MultiValue[c]
		}
		for _, c := range b.schema.Groups {
			d.group[c][i] = rec.Groups[c]
		}
		for _, c := range b.schema.Numeric {
			if v, ok := rec.Numeric[c]; ok {
				d.num[c][i] = v
				d.numOK[c][i] = true
			}
		}
	}

	d.categories = discoverCategories(b.schema.MultiValue)
	return d
}

// discoverCategories pairs <Name>HaveWorkedWith with <Name>WantToWorkWith.
// Columns without a counterpart are kept as plain multi-value columns but do
// not form a category.
func discoverCategories(multiCols []string) []Category {
	cols := make(map[string]struct{}, len(multiCols))
	for _, c := range multiCols {
		cols[c] = struct{}{}
	}
	var cats []Category
	for _, c := range multiCols {
		name, ok := strings.CutSuffix(c, haveSuffix)
		if !ok || name == "" {
			continue
		}
		want := name + wantSuffix
		if _, ok := cols[want]; !ok {
			continue
		}
		cats = append(cats, Category{Name: name, HaveField: c, WantField: want})
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.ids) }

// IDs returns the record identifier column.
func (d *Dataset) IDs() []string { return d.ids }

// MultiColumn returns the raw delimiter-list column for a multi-value field.
func (d *Dataset) MultiColumn(field string) ([]string, bool) {
	col, ok := d.multi[field]
	return col, ok
}

// GroupColumn returns a grouping-dimension column.
func (d *Dataset) GroupColumn(field string) ([]string, bool) {
	col, ok := d.group[field]
	return col, ok
}

// NumericColumn returns a numeric column with its validity mask; ok[i] is
// false where the source value was missing or unparseable.
func (d *Dataset) NumericColumn(field string) (vals []float64, ok []bool, exists bool) {
	vals, exists = d.num[field]
	if !exists {
		return nil, nil, false
	}
	return vals, d.numOK[field], true
}

// GroupFields lists the grouping dimensions in schema order.
func (d *Dataset) GroupFields() []string { return d.groupFields }

// HasGroup reports whether a grouping dimension exists.
func (d *Dataset) HasGroup(field string) bool {
	_, ok := d.group[field]
	return ok
}

// Categories lists the discovered have/want pairs sorted by name.
func (d *Dataset) Categories() []Category { return d.categories }

// Category looks up a have/want pair by category name.
func (d *Dataset) Category(name string) (Category, bool) {
	for _, c := range d.categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
