package investments

import (
	"fmt"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/pkg/models"
)

// GroupOption is a named grouping offered by the request surface, mapping to
// one or more dataset columns (state and county keep their code columns
// alongside for map rendering).
type GroupOption struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// GroupOptions lists the supported groupings for the investment summary.
func GroupOptions() []GroupOption {
	return []GroupOption{
		{Name: "Program Area", Fields: []string{"Program Area"}},
		{Name: "Svi Status", Fields: []string{FieldSVIStatus}},
		{Name: "Investment Type", Fields: []string{"Investment Type"}},
		{Name: "State", Fields: []string{FieldStateName, FieldStateCode}},
		{Name: "County", Fields: []string{FieldStateName, FieldStateCode, FieldCounty, FieldFIPS}},
	}
}

// Service answers investment summary requests over one immutable dataset.
type Service struct {
	ds *dataset.Dataset
}

// NewService wraps a loaded investment dataset.
func NewService(ds *dataset.Dataset) *Service {
	return &Service{ds: ds}
}

// Summary computes the grouped ratio aggregate for a named grouping,
// optionally restricted to a single state code. The sub-population is always
// the socially vulnerable flag.
func (s *Service) Summary(groupBy, stateCode string) ([]models.InvestmentRow, error) {
	var fields []string
	for _, opt := range GroupOptions() {
		if opt.Name == groupBy {
			fields = opt.Fields
			break
		}
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownGroup, groupBy)
	}

	rows, err := s.selectRows(stateCode)
	if err != nil {
		return nil, err
	}
	return Aggregate(s.ds, fields, rows, SociallyVulnerable)
}

// selectRows returns the row indexes to aggregate, filtered by state code
// when one is given.
func (s *Service) selectRows(stateCode string) ([]int, error) {
	n := s.ds.Len()
	if stateCode == "" {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}

	codes, ok := s.ds.GroupColumn(FieldStateCode)
	if !ok {
		return nil, fmt.Errorf("grouping dimension %q not in dataset schema", FieldStateCode)
	}
	var rows []int
	for i := 0; i < n; i++ {
		if codes[i] == stateCode {
			rows = append(rows, i)
		}
	}
	if rows == nil {
		return nil, fmt.Errorf("%w: state %q", models.ErrNotFound, stateCode)
	}
	return rows, nil
}
