package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/surveylens/surveylens/pkg/models"
)

// side selects which token column of a JoinedRow a computation reads.
type side int

const (
	haveSide side = iota
	wantSide
)

func (s side) token(r JoinedRow) string {
	if s == haveSide {
		return r.HaveToken
	}
	return r.WantToken
}

// countEntry is one (token, groups) bucket with its row count.
type countEntry struct {
	Token  string
	Groups []string
	Count  int
}

// countBy groups rows by (token, grouping values) on the chosen side and
// counts them. Rows whose token on that side is null are excluded before
// grouping; they mean "no corresponding have/want", not a zero-valued token.
// Bucket order is first-seen.
func countBy(rows []JoinedRow, s side) []countEntry {
	idx := make(map[string]int)
	var out []countEntry
	for _, r := range rows {
		tok := s.token(r)
		if tok == "" {
			continue
		}
		k := joinKey("", tok, r.Groups)
		if i, ok := idx[k]; ok {
			out[i].Count++
			continue
		}
		idx[k] = len(out)
		out = append(out, countEntry{Token: tok, Groups: r.Groups, Count: 1})
	}
	return out
}

// countIndex turns count entries into a (token, groups) lookup.
func countIndex(entries []countEntry) map[string]int {
	m := make(map[string]int, len(entries))
	for _, e := range entries {
		m[joinKey("", e.Token, e.Groups)] = e.Count
	}
	return m
}

// distinctRespondents counts distinct record ids across the full join: the
// unconditional universe of everyone who answered either question.
func distinctRespondents(rows []JoinedRow) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.RecordID] = struct{}{}
	}
	return len(seen)
}

// ratio divides with the zero-denominator policy: 0, never NaN or an error.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// filterRows keeps rows whose token on the chosen side is non-null,
// restricting the universe for the conditional metrics.
func filterRows(rows []JoinedRow, s side) []JoinedRow {
	out := make([]JoinedRow, 0, len(rows))
	for _, r := range rows {
		if s.token(r) != "" {
			out = append(out, r)
		}
	}
	return out
}

// ComputeMetric evaluates one metric kind over the joined rows.
//
// Universes per kind: the unconditional proportions divide by every distinct
// respondent in the full join; have-who-want divides by the haves of each
// token; want-who-not-have divides by the wants of each token.
func ComputeMetric(kind models.MetricKind, rows []JoinedRow) ([]models.MetricResult, error) {
	var results []models.MetricResult

	switch kind {
	case models.MetricCountHave, models.MetricCountWant:
		s := haveSide
		if kind == models.MetricCountWant {
			s = wantSide
		}
		for _, e := range countBy(rows, s) {
			results = append(results, models.MetricResult{Token: e.Token, Groups: e.Groups, Value: float64(e.Count)})
		}

	case models.MetricPropHave, models.MetricPropWant:
		s := haveSide
		if kind == models.MetricPropWant {
			s = wantSide
		}
		den := distinctRespondents(rows)
		for _, e := range countBy(rows, s) {
			results = append(results, models.MetricResult{Token: e.Token, Groups: e.Groups, Value: ratio(e.Count, den)})
		}

	case models.MetricHaveWhoWant:
		haves := filterRows(rows, haveSide)
		wantsAmong := countIndex(countBy(haves, wantSide))
		for _, e := range countBy(haves, haveSide) {
			num := wantsAmong[joinKey("", e.Token, e.Groups)]
			results = append(results, models.MetricResult{Token: e.Token, Groups: e.Groups, Value: ratio(num, e.Count)})
		}

	case models.MetricWantWhoNotHave:
		wants := filterRows(rows, wantSide)
		havesAmong := countIndex(countBy(wants, haveSide))
		for _, e := range countBy(wants, wantSide) {
			num := havesAmong[joinKey("", e.Token, e.Groups)]
			v := 0.0
			if e.Count > 0 {
				v = 1 - ratio(num, e.Count)
			}
			results = append(results, models.MetricResult{Token: e.Token, Groups: e.Groups, Value: v})
		}

	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownMetric, kind)
	}

	sortResults(results)
	return results, nil
}

// sortResults orders by value descending, then token, then grouping values,
// so output is deterministic for rendering and caching.
func sortResults(results []models.MetricResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Value != results[j].Value {
			return results[i].Value > results[j].Value
		}
		if results[i].Token != results[j].Token {
			return results[i].Token < results[j].Token
		}
		return strings.Join(results[i].Groups, keySep) < strings.Join(results[j].Groups, keySep)
	})
}
