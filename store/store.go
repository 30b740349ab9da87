// Package store provides read access to the crime knowledge graph.
//
// The engine never builds graph storage itself; it talks to an external
// graph database through the Querier interface. Queries are Cypher text
// with named $parameters and results come back as ordered row maps, which
// keeps every layer above this package driver-agnostic and trivially
// stubbable in tests.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Row is a single result record: column name -> value.
type Row = map[string]any

// Querier executes a read query against the graph store.
//
// Implementations must be safe for concurrent use. Errors are returned to
// the caller, which decides whether to escalate; the engine's assembler
// logs and drops failed queries instead of aborting siblings.
type Querier interface {
	Query(ctx context.Context, query string, params map[string]any) ([]Row, error)
}

// canonicalParams renders params as a deterministic string for cache keys.
// Keys are sorted so logically equal parameter sets produce equal strings.
func canonicalParams(params map[string]any) string {
	if len(params) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		v, err := json.Marshal(params[k])
		if err != nil {
			v = []byte(fmt.Sprintf("%q", fmt.Sprint(params[k])))
		}
		fmt.Fprintf(&b, "%q:%s", k, v)
	}
	b.WriteByte('}')
	return b.String()
}
