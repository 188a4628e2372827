// Package models defines the request and result types shared between the
// computation engine, the storage backends, and the REST API.
package models

import "fmt"

// MetricKind identifies one of the supported survey metrics.
type MetricKind string

const (
	// MetricCountHave counts respondents per technology they have worked with.
	MetricCountHave MetricKind = "count_have"
	// MetricCountWant counts respondents per technology they want to work with.
	MetricCountWant MetricKind = "count_want"
	// MetricPropHave is the have-count divided by all respondents who
	// answered either the have or the want question.
	MetricPropHave MetricKind = "prop_have"
	// MetricPropWant is the want-count divided by all respondents who
	// answered either the have or the want question.
	MetricPropWant MetricKind = "prop_want"
	// MetricHaveWhoWant is, among respondents who have a technology, the
	// proportion who also want to keep working with it.
	MetricHaveWhoWant MetricKind = "have_who_want"
	// MetricWantWhoNotHave is, among respondents who want a technology, the
	// proportion who have not worked with it yet.
	MetricWantWhoNotHave MetricKind = "want_who_not_have"
)

// MetricKinds lists every supported metric in presentation order.
func MetricKinds() []MetricKind {
	return []MetricKind{
		MetricCountHave,
		MetricPropHave,
		MetricCountWant,
		MetricPropWant,
		MetricHaveWhoWant,
		MetricWantWhoNotHave,
	}
}

// ParseMetricKind validates a metric identifier from a request.
func ParseMetricKind(s string) (MetricKind, error) {
	k := MetricKind(s)
	switch k {
	case MetricCountHave, MetricCountWant, MetricPropHave, MetricPropWant,
		MetricHaveWhoWant, MetricWantWhoNotHave:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// IsProportion reports whether the metric's value is a proportion in [0,1]
// rather than a raw count.
func (k MetricKind) IsProportion() bool {
	return k != MetricCountHave && k != MetricCountWant
}

// Label returns a human-readable name for the metric.
func (k MetricKind) Label() string {
	switch k {
	case MetricCountHave:
		return "Number Have Worked With"
	case MetricCountWant:
		return "Number Want To Work With"
	case MetricPropHave:
		return "Proportion Have Worked With"
	case MetricPropWant:
		return "Proportion Want To Work With"
	case MetricHaveWhoWant:
		return "Proportion Have Who Want"
	case MetricWantWhoNotHave:
		return "Proportion Want Who Do Not Have"
	}
	return string(k)
}
