package dataset

import (
	"reflect"
	"testing"
)

func TestNewBuilderRejectsBadSchemas(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{name: "empty column name", schema: Schema{Groups: []string{""}}},
		{name: "duplicate within a kind", schema: Schema{Groups: []string{"Age", "Age"}}},
		{name: "duplicate across kinds", schema: Schema{Groups: []string{"Age"}, Numeric: []string{"Age"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBuilder(tt.schema); err == nil {
				t.Fatal("NewBuilder should fail")
			}
		})
	}
}

func TestAppendRejectsBadRecords(t *testing.T) {
	b, err := NewBuilder(Schema{Groups: []string{"Age"}})
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if err := b.Append(Record{}); err == nil {
		t.Fatal("empty identifier should fail")
	}
	if err := b.Append(Record{ID: "R1"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := b.Append(Record{ID: "R1"}); err == nil {
		t.Fatal("duplicate identifier should fail")
	}
}

func TestBuildColumnarLayout(t *testing.T) {
	b, err := NewBuilder(Schema{
		MultiValue: []string{"LanguageHaveWorkedWith"},
		Groups:     []string{"Age"},
		Numeric:    []string{"YearsCode"},
	})
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	recs := []Record{
		{
			ID:         "R1",
			MultiValue: map[string]string{"LanguageHaveWorkedWith": "Go;Rust"},
			Groups:     map[string]string{"Age": "25-34"},
			Numeric:    map[string]float64{"YearsCode": 5},
		},
		{ID: "R2"}, // everything missing
	}
	for _, rec := range recs {
		if err := b.Append(rec); err != nil {
			t.Fatalf("Append(%s): %v", rec.ID, err)
		}
	}
	d := b.Build()

	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}
	if got := d.IDs(); !reflect.DeepEqual(got, []string{"R1", "R2"}) {
		t.Fatalf("IDs = %v", got)
	}

	multi, ok := d.MultiColumn("LanguageHaveWorkedWith")
	if !ok || multi[0] != "Go;Rust" || multi[1] != "" {
		t.Fatalf("MultiColumn = %v, %v", multi, ok)
	}

	group, ok := d.GroupColumn("Age")
	if !ok || group[0] != "25-34" || group[1] != "" {
		t.Fatalf("GroupColumn = %v, %v", group, ok)
	}

	vals, mask, exists := d.NumericColumn("YearsCode")
	if !exists {
		t.Fatal("YearsCode column missing")
	}
	if vals[0] != 5 || !mask[0] {
		t.Errorf("vals[0] = %v (valid=%v), want 5 (valid)", vals[0], mask[0])
	}
	if mask[1] {
		t.Error("missing numeric should be invalid")
	}

	if _, _, exists := d.NumericColumn("Salary"); exists {
		t.Error("unknown numeric column should not exist")
	}
	if d.HasGroup("Country") {
		t.Error("unknown group should not exist")
	}
}

func TestDiscoverCategories(t *testing.T) {
	tests := []struct {
		name string
		cols []string
		want []Category
	}{
		{
			name: "matched pairs sorted by name",
			cols: []string{
				"WebframeHaveWorkedWith", "WebframeWantToWorkWith",
				"LanguageHaveWorkedWith", "LanguageWantToWorkWith",
			},
			want: []Category{
				{Name: "Language", HaveField: "LanguageHaveWorkedWith", WantField: "LanguageWantToWorkWith"},
				{Name: "Webframe", HaveField: "WebframeHaveWorkedWith", WantField: "WebframeWantToWorkWith"},
			},
		},
		{
			name: "have without want is not a category",
			cols: []string{"LanguageHaveWorkedWith"},
			want: nil,
		},
		{
			name: "bare suffix is not a category",
			cols: []string{"HaveWorkedWith", "WantToWorkWith"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := discoverCategories(tt.cols)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("discoverCategories(%v) = %+v, want %+v", tt.cols, got, tt.want)
			}
		})
	}
}
