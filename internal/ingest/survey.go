// Package ingest reads the delimited source files and normalizes them into
// immutable Datasets: multi-value columns stay raw token lists, categorical
// answers get their remap applied, and numeric placeholders ("NA",
// "Less than 1 year") become proper values or missing before the engine
// ever sees a row.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/surveylens/surveylens/internal/dataset"
)

const idColumn = "ResponseId"

// Survey columns coerced to numbers, with their placeholder values.
var surveyNumericCols = []string{"ConvertedCompYearly", "YearsCode", "YearsCodePro"}

const bucketSuffix = "Buckets"

// SurveyOptions steers survey ingestion. Groups lists the grouping
// dimensions to keep; a name ending in "Buckets" is derived from the
// corresponding numeric tenure column instead of read from the file. Remaps
// shorten long categorical answers per column.
type SurveyOptions struct {
	Groups []string
	Remaps map[string]map[string]string
}

// LoadSurvey reads a survey CSV from disk.
func LoadSurvey(path string, opts SurveyOptions) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening survey file: %w", err)
	}
	defer f.Close()
	return ParseSurvey(f, opts)
}

// ParseSurvey reads survey rows into a Dataset. The identifier column is
// required; malformed data rows are skipped and counted, a duplicate
// identifier is an error.
func ParseSurvey(r io.Reader, opts SurveyOptions) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading survey header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}
	idIdx, ok := colIdx[idColumn]
	if !ok {
		return nil, fmt.Errorf("survey file is missing required column %q", idColumn)
	}

	var multiCols []string
	for _, h := range header {
		h = strings.TrimSpace(h)
		if strings.HasSuffix(h, "HaveWorkedWith") || strings.HasSuffix(h, "WantToWorkWith") {
			multiCols = append(multiCols, h)
		}
	}

	var numericCols []string
	for _, c := range surveyNumericCols {
		if _, ok := colIdx[c]; ok {
			numericCols = append(numericCols, c)
		}
	}

	// A group either maps to a file column or is a derived tenure bucket.
	type groupSource struct {
		name    string
		col     int
		bucket  bool
		baseCol int
	}
	var groups []groupSource
	for _, g := range opts.Groups {
		if i, ok := colIdx[g]; ok {
			groups = append(groups, groupSource{name: g, col: i})
			continue
		}
		base, ok := strings.CutSuffix(g, bucketSuffix)
		if !ok {
			return nil, fmt.Errorf("grouping dimension %q not in survey file", g)
		}
		bi, ok := colIdx[base]
		if !ok {
			return nil, fmt.Errorf("grouping dimension %q has no backing column %q", g, base)
		}
		groups = append(groups, groupSource{name: g, bucket: true, baseCol: bi})
	}

	groupNames := make([]string, len(groups))
	for i, g := range groups {
		groupNames[i] = g.name
	}
	b, err := dataset.NewBuilder(dataset.Schema{
		MultiValue: multiCols,
		Groups:     groupNames,
		Numeric:    numericCols,
	})
	if err != nil {
		return nil, err
	}

	skipped := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		id := strings.TrimSpace(row[idIdx])
		if id == "" {
			skipped++
			continue
		}

		rec := dataset.Record{
			ID:         id,
			MultiValue: make(map[string]string, len(multiCols)),
			Groups:     make(map[string]string, len(groups)),
			Numeric:    make(map[string]float64, len(numericCols)),
		}
		for _, c := range multiCols {
			rec.MultiValue[c] = row[colIdx[c]]
		}
		for _, c := range numericCols {
			if v, ok := coerceSurveyNumber(c, row[colIdx[c]]); ok {
				rec.Numeric[c] = v
			}
		}
		for _, g := range groups {
			if g.bucket {
				rec.Groups[g.name] = tenureBucket(coerceYears(row[g.baseCol]))
				continue
			}
			rec.Groups[g.name] = remapValue(opts.Remaps[g.name], row[g.col])
		}

		if err := b.Append(rec); err != nil {
			return nil, fmt.Errorf("survey row %s: %w", id, err)
		}
	}
	if skipped > 0 {
		log.Printf("survey ingest: skipped %d malformed rows", skipped)
	}
	return b.Build(), nil
}

func remapValue(remap map[string]string, v string) string {
	if short, ok := remap[v]; ok {
		return short
	}
	return v
}

// coerceSurveyNumber normalizes a numeric survey cell. Tenure columns carry
// the descriptive endpoints the original survey uses.
func coerceSurveyNumber(col, v string) (float64, bool) {
	if col == "YearsCode" || col == "YearsCodePro" {
		return coerceYears(v)
	}
	v = strings.TrimSpace(v)
	if v == "" || v == dataset.NASentinel {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func coerceYears(v string) (float64, bool) {
	switch strings.TrimSpace(v) {
	case "", dataset.NASentinel:
		return 0, false
	case "Less than 1 year":
		return 0.5, true
	case "More than 50 years":
		return 51, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// tenureBucket maps coding tenure to its decade bucket. Missing tenure is a
// bucket of its own since the question is optional.
func tenureBucket(years float64, ok bool) string {
	if !ok {
		return dataset.NASentinel
	}
	switch {
	case years < 10:
		return "0-9 Years"
	case years < 20:
		return "10-19 Years"
	case years < 30:
		return "20-29 Years"
	case years < 40:
		return "30-39 Years"
	case years < 50:
		return "40-49 Years"
	}
	return "50+ Years"
}
