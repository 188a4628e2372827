package investments

import (
	"errors"
	"testing"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/pkg/models"
)

func buildInvestmentDataset(t *testing.T) *dataset.Dataset {
	t.Helper()

	b, err := dataset.NewBuilder(dataset.Schema{
		Groups:  []string{"Program Area", FieldSVIStatus, "Investment Type", FieldStateName, FieldStateCode, FieldCounty, FieldFIPS},
		Numeric: []string{FieldDollars, FieldCount},
	})
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}

	recs := []dataset.Record{
		{
			ID:      "1",
			Groups:  map[string]string{"Program Area": "X", FieldSVIStatus: "Not Socially Vulnerable", FieldStateName: "Vermont", FieldStateCode: "VT"},
			Numeric: map[string]float64{FieldDollars: 70, FieldCount: 1},
		},
		{
			ID:      "2",
			Groups:  map[string]string{"Program Area": "X", FieldSVIStatus: SVIVulnerable, FieldStateName: "Vermont", FieldStateCode: "VT"},
			Numeric: map[string]float64{FieldDollars: 30, FieldCount: 1},
		},
		{
			// Group Y has no usable numerics at all: it must still appear
			// with average and proportions 0.
			ID:     "3",
			Groups: map[string]string{"Program Area": "Y", FieldSVIStatus: "Not Socially Vulnerable", FieldStateName: "Maine", FieldStateCode: "ME"},
		},
	}
	for _, r := range recs {
		if err := b.Append(r); err != nil {
			t.Fatalf("Append(%s): %v", r.ID, err)
		}
	}
	return b.Build()
}

func rowByGroup(t *testing.T, rows []models.InvestmentRow, group string) models.InvestmentRow {
	t.Helper()
	for _, r := range rows {
		if len(r.Groups) > 0 && r.Groups[0] == group {
			return r
		}
	}
	t.Fatalf("group %q missing from %v", group, rows)
	return models.InvestmentRow{}
}

func TestSummaryGroupedRatios(t *testing.T) {
	svc := NewService(buildInvestmentDataset(t))

	rows, err := svc.Summary("Program Area", "")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("groups = %d, want 2", len(rows))
	}

	x := rowByGroup(t, rows, "X")
	if x.Sum != 100 || x.Count != 2 {
		t.Fatalf("X sum/count = %v/%v, want 100/2", x.Sum, x.Count)
	}
	if x.Average != 50 {
		t.Errorf("X average = %v, want 50", x.Average)
	}
	if x.SubPropSum != 0.3 {
		t.Errorf("X sub_prop_sum = %v, want 0.3", x.SubPropSum)
	}
	if x.SubPropCount != 0.5 {
		t.Errorf("X sub_prop_count = %v, want 0.5", x.SubPropCount)
	}

	y := rowByGroup(t, rows, "Y")
	if y.Average != 0 || y.SubPropSum != 0 || y.SubPropCount != 0 {
		t.Errorf("Y ratios = %+v, want all zero", y)
	}
}

func TestSummarySortedBySumDescending(t *testing.T) {
	svc := NewService(buildInvestmentDataset(t))
	rows, err := svc.Summary("Program Area", "")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Sum > rows[i-1].Sum {
			t.Fatalf("rows not sorted by sum: %v", rows)
		}
	}
}

func TestSummaryStateFilter(t *testing.T) {
	svc := NewService(buildInvestmentDataset(t))

	rows, err := svc.Summary("Program Area", "VT")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(rows) != 1 || rows[0].Groups[0] != "X" {
		t.Fatalf("VT rows = %v, want only group X", rows)
	}
}

func TestSummaryStateGrouping(t *testing.T) {
	svc := NewService(buildInvestmentDataset(t))

	rows, err := svc.Summary("State", "")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	vt := rowByGroup(t, rows, "Vermont")
	if len(vt.Groups) != 2 || vt.Groups[1] != "VT" {
		t.Fatalf("state grouping should carry the code column, got %v", vt.Groups)
	}
}

func TestSummaryErrors(t *testing.T) {
	svc := NewService(buildInvestmentDataset(t))

	if _, err := svc.Summary("Region", ""); !errors.Is(err, models.ErrUnknownGroup) {
		t.Fatalf("unknown grouping error = %v, want ErrUnknownGroup", err)
	}
	if _, err := svc.Summary("Program Area", "ZZ"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("unknown state error = %v, want ErrNotFound", err)
	}
}

func TestAggregateRequiresGrouping(t *testing.T) {
	ds := buildInvestmentDataset(t)
	if _, err := Aggregate(ds, nil, []int{0}, SociallyVulnerable); err == nil {
		t.Fatal("Aggregate without grouping dimensions should fail")
	}
}
