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
	"github.com/surveylens/surveylens/internal/investments"
)

// investment file columns read verbatim as grouping dimensions.
var investmentGroupCols = []string{
	"Program Area",
	investments.FieldSVIStatus,
	"Investment Type",
	investments.FieldStateName,
	investments.FieldCounty,
}

// LoadInvestments reads the rural investments CSV from disk.
func LoadInvestments(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening investments file: %w", err)
	}
	defer f.Close()
	return ParseInvestments(f)
}

// ParseInvestments normalizes investment rows into a Dataset: county FIPS
// codes are zero-padded, dollar amounts lose their thousands separators, and
// a State Code column is derived from the state name. Rows from territories
// or unknown states are dropped since the map views cannot place them.
func ParseInvestments(r io.Reader) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading investments header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}
	required := append([]string{investments.FieldFIPS, investments.FieldDollars, investments.FieldCount}, investmentGroupCols...)
	for _, c := range required {
		if _, ok := colIdx[c]; !ok {
			return nil, fmt.Errorf("investments file is missing required column %q", c)
		}
	}

	groupCols := append(append([]string{}, investmentGroupCols...), investments.FieldStateCode, investments.FieldFIPS)
	b, err := dataset.NewBuilder(dataset.Schema{
		Groups:  groupCols,
		Numeric: []string{investments.FieldDollars, investments.FieldCount},
	})
	if err != nil {
		return nil, err
	}

	row, skipped, dropped := 0, 0, 0
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			skipped++
			continue
		}

		code := StateCode(fields[colIdx[investments.FieldStateName]])
		if code == "" {
			dropped++
			continue
		}

		rec := dataset.Record{
			ID:      strconv.Itoa(row),
			Groups:  make(map[string]string, len(groupCols)),
			Numeric: make(map[string]float64, 2),
		}
		for _, c := range investmentGroupCols {
			rec.Groups[c] = strings.TrimSpace(fields[colIdx[c]])
		}
		rec.Groups[investments.FieldStateCode] = code
		rec.Groups[investments.FieldFIPS] = normalizeFIPS(fields[colIdx[investments.FieldFIPS]])

		if v, ok := parseAmount(fields[colIdx[investments.FieldDollars]]); ok {
			rec.Numeric[investments.FieldDollars] = v
		}
		if v, ok := parseAmount(fields[colIdx[investments.FieldCount]]); ok {
			rec.Numeric[investments.FieldCount] = v
		}

		if err := b.Append(rec); err != nil {
			return nil, fmt.Errorf("investments row %d: %w", row, err)
		}
	}
	if skipped > 0 || dropped > 0 {
		log.Printf("investments ingest: skipped %d malformed rows, dropped %d territory/unknown-state rows", skipped, dropped)
	}
	return b.Build(), nil
}

// normalizeFIPS strips the spreadsheet-guard apostrophe and left-pads to the
// five-digit county code.
func normalizeFIPS(v string) string {
	v = strings.ReplaceAll(strings.TrimSpace(v), "'", "")
	for len(v) < 5 {
		v = "0" + v
	}
	return v
}

// parseAmount parses a numeric cell that may carry thousands separators.
func parseAmount(v string) (float64, bool) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	if v == "" || v == dataset.NASentinel {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
