package models

import "time"

// MetricResult is a single computed value: a token (one technology within a
// category), the values of any requested grouping dimensions, and either a
// raw count or a proportion in [0,1] depending on the metric kind.
type MetricResult struct {
	Token  string   `json:"token"`
	Groups []string `json:"groups,omitempty"`
	Value  float64  `json:"value"`
}

// PivotMatrix is the heat-map shape: one row per distinct grouping value,
// one column per token. A nil cell means the (group, token) combination was
// absent from the long-form results, which is not the same as a zero value;
// it signals "below the exclusion threshold" or "no data".
type PivotMatrix struct {
	GroupDim string     `json:"group_dim"`
	Columns  []string   `json:"columns"`
	Rows     []PivotRow `json:"rows"`
}

// PivotRow is one grouping value with its cells aligned to PivotMatrix.Columns.
type PivotRow struct {
	Group string     `json:"group"`
	Cells []*float64 `json:"cells"`
}

// TechRequest is the query surface for the categorical engine. Exclusion is
// nil when no threshold filtering is requested.
type TechRequest struct {
	Category  string     `json:"category"`
	Metric    MetricKind `json:"metric"`
	Groups    []string   `json:"groups,omitempty"`
	Exclusion *float64   `json:"exclusion,omitempty"`
}

// TechResponse carries either a ranked result list (no grouping) or a pivot
// matrix (exactly one grouping dimension).
type TechResponse struct {
	Category string         `json:"category"`
	Metric   MetricKind     `json:"metric"`
	Results  []MetricResult `json:"results,omitempty"`
	Pivot    *PivotMatrix   `json:"pivot,omitempty"`
}

// InvestmentRow is one group of the investment aggregate: summed dollars,
// summed investment counts, their ratio, and the socially-vulnerable
// sub-population's share of each.
type InvestmentRow struct {
	Groups       []string `json:"groups"`
	Sum          float64  `json:"sum"`
	Count        float64  `json:"count"`
	Average      float64  `json:"average"`
	SubPropSum   float64  `json:"sub_prop_sum"`
	SubPropCount float64  `json:"sub_prop_count"`
}

// CachedResult is a stored engine response keyed by request fingerprint.
type CachedResult struct {
	Fingerprint string     `json:"fingerprint"`
	Category    string     `json:"category"`
	Metric      MetricKind `json:"metric"`
	Groups      []string   `json:"groups,omitempty"`
	Threshold   float64    `json:"threshold"`
	Payload     []byte     `json:"payload"`
	ComputedAt  time.Time  `json:"computed_at"`
}
