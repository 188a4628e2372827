package engine

import "github.com/surveylens/surveylens/pkg/models"

// ExclusionSet collects the tokens whose unconditional have-proportion meets
// the threshold. It is always derived from the ungrouped have side of the
// same joined rows, independent of which metric the caller asked for, so
// every metric at a given category and threshold reports the same token
// vocabulary.
func ExclusionSet(rows []JoinedRow, threshold float64) map[string]struct{} {
	den := distinctRespondents(rows)
	set := make(map[string]struct{})
	for _, e := range countBy(ungrouped(rows), haveSide) {
		if ratio(e.Count, den) >= threshold {
			set[e.Token] = struct{}{}
		}
	}
	return set
}

// ungrouped strips grouping values so countBy buckets by token alone.
func ungrouped(rows []JoinedRow) []JoinedRow {
	out := make([]JoinedRow, len(rows))
	for i, r := range rows {
		r.Groups = nil
		out[i] = r
	}
	return out
}

// ApplyExclusion retains only results whose token is in the exclusion set.
// A nil threshold passes everything through; an empty result is valid.
func ApplyExclusion(results []models.MetricResult, rows []JoinedRow, threshold *float64) []models.MetricResult {
	if threshold == nil {
		return results
	}
	set := ExclusionSet(rows, *threshold)
	out := make([]models.MetricResult, 0, len(results))
	for _, r := range results {
		if _, ok := set[r.Token]; ok {
			out = append(out, r)
		}
	}
	return out
}
