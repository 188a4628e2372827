// Package engine implements the categorical aggregation pipeline: explode a
// multi-value column into (record, token) rows, full-outer-join the have and
// want sides, compute counts and proportions over their statistical
// universes, apply the exclusion threshold, and pivot grouped results into a
// matrix. Every stage is a pure function over the immutable Dataset.
package engine

import (
	"fmt"
	"strings"

	"github.com/surveylens/surveylens/internal/dataset"
)

// Delimiter separates tokens inside a raw multi-value cell.
const Delimiter = ";"

// ExplodedRow is one (record, token) pair from splitting a multi-value cell,
// carrying the record's grouping-dimension values alongside.
type ExplodedRow struct {
	RecordID string
	Token    string
	Groups   []string
}

// Explode splits the named multi-value field into one row per non-empty
// token. Records whose cell is empty or the NA sentinel are non-respondents
// and are dropped entirely. Tokens are not deduplicated within a record:
// "A;B;A" yields three rows.
func Explode(ds *dataset.Dataset, field string, groupDims []string) ([]ExplodedRow, error) {
	col, ok := ds.MultiColumn(field)
	if !ok {
		return nil, fmt.Errorf("multi-value field %q not in dataset schema", field)
	}
	groupCols := make([][]string, len(groupDims))
	for i, g := range groupDims {
		gc, ok := ds.GroupColumn(g)
		if !ok {
			return nil, fmt.Errorf("grouping dimension %q not in dataset schema", g)
		}
		groupCols[i] = gc
	}

	ids := ds.IDs()
	var rows []ExplodedRow
	for i, raw := range col {
		if raw == "" || raw == dataset.NASentinel {
			continue
		}
		var groups []string
		if len(groupDims) > 0 {
			groups = make([]string, len(groupDims))
			for g := range groupCols {
				groups[g] = groupCols[g][i]
			}
		}
		for _, tok := range strings.Split(raw, Delimiter) {
			if tok == "" {
				continue
			}
			rows = append(rows, ExplodedRow{RecordID: ids[i], Token: tok, Groups: groups})
		}
	}
	return rows, nil
}
