package casegraph

import "errors"

var (
	// ErrEmptyQuestion is returned when Ask receives a blank question.
	ErrEmptyQuestion = errors.New("casegraph: question is empty")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("casegraph: invalid configuration")

	// ErrGraphUnavailable is returned when the graph database cannot be
	// reached during engine construction.
	ErrGraphUnavailable = errors.New("casegraph: graph database unavailable")
)
