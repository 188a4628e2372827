package engine

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/pkg/models"
)

// Engine runs the full pipeline over one immutable survey Dataset:
// explode → join → metric → exclusion → (pivot). It holds no mutable state,
// so concurrent Compute calls are safe without locking.
type Engine struct {
	ds *dataset.Dataset
}

// New wraps a loaded survey dataset.
func New(ds *dataset.Dataset) *Engine {
	return &Engine{ds: ds}
}

// Categories lists the have/want category pairs discovered in the dataset.
func (e *Engine) Categories() []dataset.Category {
	return e.ds.Categories()
}

// Groups lists the grouping dimensions available for heat maps.
func (e *Engine) Groups() []string {
	return e.ds.GroupFields()
}

// Tokens returns the sorted token vocabulary of a category across both its
// have and want columns.
func (e *Engine) Tokens(category string) ([]string, error) {
	cat, ok := e.ds.Category(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCategory, category)
	}
	seen := make(map[string]struct{})
	for _, field := range []string{cat.HaveField, cat.WantField} {
		rows, err := Explode(e.ds, field, nil)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			seen[r.Token] = struct{}{}
		}
	}
	tokens := make([]string, 0, len(seen))
	for t := range seen {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens, nil
}

// Compute runs one request through the pipeline. With no grouping dimension
// the response is a ranked result list; with exactly one it is a pivot
// matrix. Invalid categories, metrics, or grouping dimensions fail before
// any partial result is produced.
func (e *Engine) Compute(req models.TechRequest) (*models.TechResponse, error) {
	cat, ok := e.ds.Category(req.Category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownCategory, req.Category)
	}
	if _, err := models.ParseMetricKind(string(req.Metric)); err != nil {
		return nil, err
	}
	for _, g := range req.Groups {
		if !e.ds.HasGroup(g) {
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownGroup, g)
		}
	}

	haveRows, err := Explode(e.ds, cat.HaveField, req.Groups)
	if err != nil {
		return nil, err
	}
	wantRows, err := Explode(e.ds, cat.WantField, req.Groups)
	if err != nil {
		return nil, err
	}
	joined := JoinHaveWant(haveRows, wantRows)

	results, err := ComputeMetric(req.Metric, joined)
	if err != nil {
		return nil, err
	}
	results = ApplyExclusion(results, joined, req.Exclusion)

	resp := &models.TechResponse{Category: req.Category, Metric: req.Metric}
	if len(req.Groups) == 1 {
		resp.Pivot = Pivot(results, req.Groups[0])
	} else {
		resp.Results = results
	}
	return resp, nil
}

// Fingerprint derives a stable cache key from the request parameters. The
// pipeline is deterministic, so equal fingerprints mean equal responses.
func Fingerprint(req models.TechRequest) string {
	h := fnv.New64a()
	h.Write([]byte(req.Category))
	h.Write([]byte{0})
	h.Write([]byte(req.Metric))
	for _, g := range req.Groups {
		h.Write([]byte{0})
		h.Write([]byte(g))
	}
	if req.Exclusion != nil {
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatFloat(*req.Exclusion, 'g', -1, 64)))
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
