package engine

import "testing"

func TestJoinCompleteness(t *testing.T) {
	ds := buildSurveyDataset(t)
	have, err := Explode(ds, "LanguageHaveWorkedWith", nil)
	if err != nil {
		t.Fatalf("Explode(have): %v", err)
	}
	want, err := Explode(ds, "LanguageWantToWorkWith", nil)
	if err != nil {
		t.Fatalf("Explode(want): %v", err)
	}
	joined := JoinHaveWant(have, want)

	haveKeys := make(map[string]bool)
	wantKeys := make(map[string]bool)
	for _, r := range joined {
		if r.HaveToken != "" {
			haveKeys[r.RecordID+"/"+r.HaveToken] = true
		}
		if r.WantToken != "" {
			wantKeys[r.RecordID+"/"+r.WantToken] = true
		}
	}
	for _, r := range have {
		if !haveKeys[r.RecordID+"/"+r.Token] {
			t.Errorf("have row (%s, %s) missing from join", r.RecordID, r.Token)
		}
	}
	for _, r := range want {
		if !wantKeys[r.RecordID+"/"+r.Token] {
			t.Errorf("want row (%s, %s) missing from join", r.RecordID, r.Token)
		}
	}
}

func TestJoinNeverProducesDoubleNull(t *testing.T) {
	joined := joinedFixture(t, nil)
	for _, r := range joined {
		if r.HaveToken == "" && r.WantToken == "" {
			t.Fatalf("row for %s has both tokens null", r.RecordID)
		}
	}
}

func TestJoinMatchedRowsAgreeOnToken(t *testing.T) {
	joined := joinedFixture(t, nil)
	for _, r := range joined {
		if r.HaveToken != "" && r.WantToken != "" && r.HaveToken != r.WantToken {
			t.Fatalf("matched row has diverging tokens: %+v", r)
		}
	}
}

func TestJoinKeyNotDuplicated(t *testing.T) {
	// A key contributed by a single side must appear exactly once per its
	// multiplicity on that side.
	joined := joinedFixture(t, nil)
	seen := make(map[string]int)
	for _, r := range joined {
		tok := r.HaveToken
		if tok == "" {
			tok = r.WantToken
		}
		seen[r.RecordID+"/"+tok]++
	}
	// Fixture has no duplicate tokens within a record, so every key is unique.
	for k, n := range seen {
		if n != 1 {
			t.Errorf("key %s appears %d times, want 1", k, n)
		}
	}
}

func TestJoinReachesAllRespondents(t *testing.T) {
	joined := joinedFixture(t, nil)
	if got := distinctRespondents(joined); got != 4 {
		t.Fatalf("distinct respondents = %d, want 4", got)
	}
}

func TestJoinMultiplicitiesMultiply(t *testing.T) {
	have := []ExplodedRow{
		{RecordID: "R1", Token: "Go"},
		{RecordID: "R1", Token: "Go"},
	}
	want := []ExplodedRow{{RecordID: "R1", Token: "Go"}}
	joined := JoinHaveWant(have, want)
	if len(joined) != 2 {
		t.Fatalf("joined rows = %d, want 2", len(joined))
	}
	for _, r := range joined {
		if r.HaveToken != "Go" || r.WantToken != "Go" {
			t.Fatalf("unexpected row %+v", r)
		}
	}
}

func TestJoinUnmatchedSidesKeepNull(t *testing.T) {
	joined := joinedFixture(t, nil)

	var r3 []JoinedRow
	for _, r := range joined {
		if r.RecordID == "R3" {
			r3 = append(r3, r)
		}
	}
	if len(r3) != 1 {
		t.Fatalf("R3 rows = %d, want 1", len(r3))
	}
	if r3[0].HaveToken != "" || r3[0].WantToken != "Go" {
		t.Fatalf("R3 row = %+v, want want-only Go", r3[0])
	}
}
