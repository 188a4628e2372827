package engine

import "strings"

// JoinedRow is one output row of the have/want full outer join. An empty
// token string means that side had no matching row (null). Both tokens can
// never be empty at once: every joined row originates from at least one
// exploded side.
type JoinedRow struct {
	RecordID  string
	HaveToken string
	WantToken string
	Groups    []string
}

// keySep cannot occur in tokens or grouping values coming from a
// semicolon-delimited cell, so composite keys are collision-free.
const keySep = "\x1f"

func joinKey(id, token string, groups []string) string {
	if len(groups) == 0 {
		return id + keySep + token
	}
	return id + keySep + token + keySep + strings.Join(groups, keySep)
}

type joinSide struct {
	order []string
	count map[string]int
	rows  map[string]ExplodedRow
}

func indexSide(rows []ExplodedRow) joinSide {
	s := joinSide{count: make(map[string]int), rows: make(map[string]ExplodedRow)}
	for _, r := range rows {
		k := joinKey(r.RecordID, r.Token, r.Groups)
		if s.count[k] == 0 {
			s.order = append(s.order, k)
			s.rows[k] = r
		}
		s.count[k]++
	}
	return s
}

// JoinHaveWant computes the relational full outer join of the two exploded
// views on (record id, token, grouping values). A key present on both sides
// contributes have×want rows (multiplicities multiply, matching the
// relational join of duplicated keys); a key present on one side only keeps
// its multiplicity with the opposite token null. The single token column per
// side is the coalesced result: the key's token fills whichever sides carry
// it, left winning by construction since matched keys agree on the token.
func JoinHaveWant(haveRows, wantRows []ExplodedRow) []JoinedRow {
	have := indexSide(haveRows)
	want := indexSide(wantRows)

	var out []JoinedRow
	for _, k := range have.order {
		r := have.rows[k]
		n := have.count[k]
		if m := want.count[k]; m > 0 {
			for i := 0; i < n*m; i++ {
				out = append(out, JoinedRow{
					RecordID:  r.RecordID,
					HaveToken: r.Token,
					WantToken: r.Token,
					Groups:    r.Groups,
				})
			}
			continue
		}
		for i := 0; i < n; i++ {
			out = append(out, JoinedRow{RecordID: r.RecordID, HaveToken: r.Token, Groups: r.Groups})
		}
	}
	for _, k := range want.order {
		if have.count[k] > 0 {
			continue
		}
		r := want.rows[k]
		for i := 0; i < want.count[k]; i++ {
			out = append(out, JoinedRow{RecordID: r.RecordID, WantToken: r.Token, Groups: r.Groups})
		}
	}
	return out
}
