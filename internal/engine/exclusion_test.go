package engine

import (
	"reflect"
	"sort"
	"testing"

	"github.com/surveylens/surveylens/pkg/models"
)

func tokensOf(results []models.MetricResult) []string {
	set := make(map[string]struct{})
	for _, r := range results {
		set[r.Token] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func TestExclusionSetFromHaveProportion(t *testing.T) {
	joined := joinedFixture(t, nil)

	// Unconditional have proportions: Go 2/4, Python 1/4.
	tests := []struct {
		name      string
		threshold float64
		want      []string
	}{
		{name: "keeps both at 0.25", threshold: 0.25, want: []string{"Go", "Python"}},
		{name: "drops python above 0.25", threshold: 0.3, want: []string{"Go"}},
		{name: "drops everything above 0.5", threshold: 0.6, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ExclusionSet(joined, tt.threshold)
			var got []string
			for tok := range set {
				got = append(got, tok)
			}
			sort.Strings(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExclusionSet(%v) = %v, want %v", tt.threshold, got, tt.want)
			}
		})
	}
}

func TestApplyExclusionNilThresholdPassesThrough(t *testing.T) {
	joined := joinedFixture(t, nil)
	results, err := ComputeMetric(models.MetricCountWant, joined)
	if err != nil {
		t.Fatalf("ComputeMetric: %v", err)
	}
	got := ApplyExclusion(results, joined, nil)
	if !reflect.DeepEqual(got, results) {
		t.Fatalf("nil threshold changed results: %v vs %v", got, results)
	}
}

func TestExclusionConsistencyAcrossMetrics(t *testing.T) {
	// The surviving token vocabulary must be identical for every metric at
	// the same threshold, because the set always derives from the
	// unconditional have proportion.
	joined := joinedFixture(t, nil)
	threshold := 0.3

	var vocab [][]string
	for _, kind := range []models.MetricKind{models.MetricCountHave, models.MetricPropWant} {
		results, err := ComputeMetric(kind, joined)
		if err != nil {
			t.Fatalf("ComputeMetric(%s): %v", kind, err)
		}
		filtered := ApplyExclusion(results, joined, &threshold)
		vocab = append(vocab, tokensOf(filtered))
	}
	if !reflect.DeepEqual(vocab[0], vocab[1]) {
		t.Fatalf("count_have tokens %v != prop_want tokens %v", vocab[0], vocab[1])
	}
	if want := []string{"Go"}; !reflect.DeepEqual(vocab[0], want) {
		t.Fatalf("surviving tokens = %v, want %v", vocab[0], want)
	}
}

func TestApplyExclusionCanEmptyResults(t *testing.T) {
	joined := joinedFixture(t, nil)
	results, err := ComputeMetric(models.MetricCountHave, joined)
	if err != nil {
		t.Fatalf("ComputeMetric: %v", err)
	}
	threshold := 0.9
	if got := ApplyExclusion(results, joined, &threshold); len(got) != 0 {
		t.Fatalf("expected empty results, got %v", got)
	}
}

func TestExclusionIgnoresGrouping(t *testing.T) {
	// Grouped rows must produce the same exclusion set as ungrouped ones;
	// the threshold gate never sees grouping dimensions.
	plain := ExclusionSet(joinedFixture(t, nil), 0.3)
	grouped := ExclusionSet(joinedFixture(t, []string{"Age"}), 0.3)
	if !reflect.DeepEqual(plain, grouped) {
		t.Fatalf("grouped exclusion %v != ungrouped %v", grouped, plain)
	}
}
