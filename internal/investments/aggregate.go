// Package investments implements the grouped ratio aggregate over the rural
// investment dataset: per-group sums, counts and averages of investment
// dollars, with the socially-vulnerable sub-population's share derived via a
// left join back onto the full aggregate.
package investments

import (
	"fmt"
	"sort"
	"strings"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/pkg/models"
)

// Column names of the investment dataset schema.
const (
	FieldDollars   = "Investment Dollars"
	FieldCount     = "Number of Investments"
	FieldSVIStatus = "Svi Status"
	FieldStateName = "State Name"
	FieldStateCode = "State Code"
	FieldCounty    = "County"
	FieldFIPS      = "County FIPS"

	// SVIVulnerable is the Svi Status value marking the sub-population.
	SVIVulnerable = "Socially Vulnerable"
)

// Predicate selects the sub-population rows of a grouped ratio aggregate.
type Predicate func(ds *dataset.Dataset, row int) bool

// SociallyVulnerable selects rows flagged with the vulnerable SVI status.
func SociallyVulnerable(ds *dataset.Dataset, row int) bool {
	col, ok := ds.GroupColumn(FieldSVIStatus)
	return ok && col[row] == SVIVulnerable
}

const keySep = "\x1f"

type bucket struct {
	groups []string
	sum    float64
	count  float64
}

// aggregate sums dollars and investment counts per grouping key over the
// selected rows. Bucket order is first-seen. Missing numeric values are
// skipped, not treated as zero rows.
func aggregate(ds *dataset.Dataset, groupCols [][]string, rows []int, dollars []float64, dollarsOK []bool, counts []float64, countsOK []bool) ([]bucket, map[string]int) {
	idx := make(map[string]int)
	var out []bucket
	for _, i := range rows {
		groups := make([]string, len(groupCols))
		for g := range groupCols {
			groups[g] = groupCols[g][i]
		}
		k := strings.Join(groups, keySep)
		bi, ok := idx[k]
		if !ok {
			bi = len(out)
			idx[k] = bi
			out = append(out, bucket{groups: groups})
		}
		if dollarsOK[i] {
			out[bi].sum += dollars[i]
		}
		if countsOK[i] {
			out[bi].count += counts[i]
		}
	}
	return out, idx
}

// Aggregate computes the grouped ratio aggregate over the selected rows.
// Every group of the unconditional aggregate appears in the output; groups
// without sub-population rows report zero proportions rather than being
// dropped, and every ratio with a zero denominator is 0.
func Aggregate(ds *dataset.Dataset, groupBy []string, rows []int, pred Predicate) ([]models.InvestmentRow, error) {
	if len(groupBy) == 0 {
		return nil, fmt.Errorf("at least one grouping dimension is required")
	}
	groupCols := make([][]string, len(groupBy))
	for i, g := range groupBy {
		col, ok := ds.GroupColumn(g)
		if !ok {
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownGroup, g)
		}
		groupCols[i] = col
	}
	dollars, dollarsOK, ok := ds.NumericColumn(FieldDollars)
	if !ok {
		return nil, fmt.Errorf("numeric field %q not in dataset schema", FieldDollars)
	}
	counts, countsOK, ok := ds.NumericColumn(FieldCount)
	if !ok {
		return nil, fmt.Errorf("numeric field %q not in dataset schema", FieldCount)
	}

	var subRows []int
	for _, i := range rows {
		if pred(ds, i) {
			subRows = append(subRows, i)
		}
	}

	full, _ := aggregate(ds, groupCols, rows, dollars, dollarsOK, counts, countsOK)
	sub, subIdx := aggregate(ds, groupCols, subRows, dollars, dollarsOK, counts, countsOK)

	out := make([]models.InvestmentRow, 0, len(full))
	for _, b := range full {
		row := models.InvestmentRow{
			Groups:  b.groups,
			Sum:     b.sum,
			Count:   b.count,
			Average: safeDiv(b.sum, b.count),
		}
		if si, ok := subIdx[strings.Join(b.groups, keySep)]; ok {
			row.SubPropSum = safeDiv(sub[si].sum, b.sum)
			row.SubPropCount = safeDiv(sub[si].count, b.count)
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sum != out[j].Sum {
			return out[i].Sum > out[j].Sum
		}
		return strings.Join(out[i].Groups, keySep) < strings.Join(out[j].Groups, keySep)
	})
	return out, nil
}

// safeDiv divides with the zero-denominator policy: 0, never NaN.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
