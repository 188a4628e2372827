package engine

import "github.com/surveylens/surveylens/pkg/models"

// Pivot reshapes long-form results into a group × token matrix for heat
// maps. It expects results computed with exactly one grouping dimension.
// Row and column order follow first appearance in the (already sorted)
// results. A combination absent from the input stays a nil cell: absence
// means "excluded or no data", which must not be rendered as a true zero.
func Pivot(results []models.MetricResult, groupDim string) *models.PivotMatrix {
	m := &models.PivotMatrix{GroupDim: groupDim}

	colIdx := make(map[string]int)
	rowIdx := make(map[string]int)
	type cell struct {
		row, col int
		value    float64
	}
	var cells []cell

	for _, r := range results {
		group := ""
		if len(r.Groups) > 0 {
			group = r.Groups[0]
		}
		ci, ok := colIdx[r.Token]
		if !ok {
			ci = len(m.Columns)
			colIdx[r.Token] = ci
			m.Columns = append(m.Columns, r.Token)
		}
		ri, ok := rowIdx[group]
		if !ok {
			ri = len(m.Rows)
			rowIdx[group] = ri
			m.Rows = append(m.Rows, models.PivotRow{Group: group})
		}
		cells = append(cells, cell{row: ri, col: ci, value: r.Value})
	}

	for i := range m.Rows {
		m.Rows[i].Cells = make([]*float64, len(m.Columns))
	}
	for _, c := range cells {
		v := c.value
		m.Rows[c.row].Cells[c.col] = &v
	}
	return m
}
