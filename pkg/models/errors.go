package models

import "errors"

var (
	// ErrNotFound is returned when a requested item is not found.
	ErrNotFound = errors.New("not found")

	// ErrUnknownCategory is returned when a request names a category that
	// does not exist in the loaded dataset.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownMetric is returned when a request names an unsupported
	// metric kind.
	ErrUnknownMetric = errors.New("unknown metric kind")

	// ErrUnknownGroup is returned when a request names a grouping dimension
	// that is not part of the dataset schema.
	ErrUnknownGroup = errors.New("unknown grouping dimension")

	// ErrBadThreshold is returned when an exclusion threshold falls outside
	// the accepted (0, 0.25] range.
	ErrBadThreshold = errors.New("exclusion threshold out of range")
)
