package store

import (
	"context"
	"strings"
	"sync"
)

// Stub is an in-memory Querier for tests. Responses are scripted against
// substrings of the query text: the first registered fragment found in the
// incoming query wins, in registration order.
type Stub struct {
	mu        sync.Mutex
	fragments []string
	rows      map[string][]Row
	errs      map[string]error

	// Queries records every executed query text, in order.
	Queries []string
}

// NewStub returns an empty stub; unmatched queries return no rows.
func NewStub() *Stub {
	return &Stub{
		rows: make(map[string][]Row),
		errs: make(map[string]error),
	}
}

// On scripts rows for any query containing fragment.
func (s *Stub) On(fragment string, rows ...Row) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[fragment]; !ok {
		if _, eok := s.errs[fragment]; !eok {
			s.fragments = append(s.fragments, fragment)
		}
	}
	s.rows[fragment] = rows
	return s
}

// Fail scripts an error for any query containing fragment.
func (s *Stub) Fail(fragment string, err error) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.errs[fragment]; !ok {
		if _, rok := s.rows[fragment]; !rok {
			s.fragments = append(s.fragments, fragment)
		}
	}
	s.errs[fragment] = err
	return s
}

// Query matches the scripted fragments against the query text.
func (s *Stub) Query(_ context.Context, query string, _ map[string]any) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Queries = append(s.Queries, query)

	for _, frag := range s.fragments {
		if !strings.Contains(query, frag) {
			continue
		}
		if err, ok := s.errs[frag]; ok {
			return nil, err
		}
		return s.rows[frag], nil
	}
	return nil, nil
}

// CallCount returns how many executed queries contained fragment.
func (s *Stub) CallCount(fragment string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, q := range s.Queries {
		if strings.Contains(q, fragment) {
			n++
		}
	}
	return n
}
