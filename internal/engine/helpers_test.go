package engine

import (
	"testing"

	"github.com/surveylens/surveylens/internal/dataset"
)

// buildSurveyDataset returns a four-respondent fixture:
//
//	R1: have "Python;Go", want "Go",     Age 25-34
//	R2: have "Go",        want "Python", Age 25-34
//	R3: have null,        want "Go",     Age 35-44
//	R4: have "NA",        want "Python", Age 35-44
//
// Exploding the have column drops R3 and R4; the full join still reaches
// all four respondents through their want rows.
func buildSurveyDataset(t *testing.T) *dataset.Dataset {
	t.Helper()

	b, err := dataset.NewBuilder(dataset.Schema{
		MultiValue: []string{"LanguageHaveWorkedWith", "LanguageWantToWorkWith"},
		Groups:     []string{"Age"},
	})
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}

	recs := []dataset.Record{
		{ID: "R1", MultiValue: map[string]string{"LanguageHaveWorkedWith": "Python;Go", "LanguageWantToWorkWith": "Go"}, Groups: map[string]string{"Age": "25-34"}},
		{ID: "R2", MultiValue: map[string]string{"LanguageHaveWorkedWith": "Go", "LanguageWantToWorkWith": "Python"}, Groups: map[string]string{"Age": "25-34"}},
		{ID: "R3", MultiValue: map[string]string{"LanguageWantToWorkWith": "Go"}, Groups: map[string]string{"Age": "35-44"}},
		{ID: "R4", MultiValue: map[string]string{"LanguageHaveWorkedWith": "NA", "LanguageWantToWorkWith": "Python"}, Groups: map[string]string{"Age": "35-44"}},
	}
	for _, r := range recs {
		if err := b.Append(r); err != nil {
			t.Fatalf("Append(%s): %v", r.ID, err)
		}
	}
	return b.Build()
}

// joinedFixture explodes and joins the fixture's have/want pair.
func joinedFixture(t *testing.T, groups []string) []JoinedRow {
	t.Helper()
	ds := buildSurveyDataset(t)
	have, err := Explode(ds, "LanguageHaveWorkedWith", groups)
	if err != nil {
		t.Fatalf("Explode(have): %v", err)
	}
	want, err := Explode(ds, "LanguageWantToWorkWith", groups)
	if err != nil {
		t.Fatalf("Explode(want): %v", err)
	}
	return JoinHaveWant(have, want)
}
