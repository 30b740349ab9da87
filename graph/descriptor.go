// Package graph holds the fixed catalog of Cypher queries the engine can
// run against the case graph, plus the machinery to bind them to
// parameters. Templates never change at runtime; questions select which
// templates run and supply their parameters.
package graph

import (
	"fmt"
	"strings"
)

// Kind classifies what a query returns.
type Kind string

const (
	// KindStats marks queries returning a single aggregate row.
	KindStats Kind = "stats"
	// KindList marks queries returning zero or more rows.
	KindList Kind = "list"
)

// Descriptor is one entry in the query catalog. Bindings names the $params
// the template requires. Templates containing {pattern} placeholders are
// bound through the pattern helpers instead of plain Bind.
type Descriptor struct {
	Name     string
	Key      string
	Kind     Kind
	Bindings []string
	Template string
}

// Bound is a descriptor ready to execute: its final bundle key, its
// parameter map, and the final query text after any pattern interpolation.
type Bound struct {
	Descriptor Descriptor
	Key        string
	Params     map[string]any
	Query      string
}

// Bind attaches parameters to the descriptor, validating that every
// required binding is present.
func (d Descriptor) Bind(params map[string]any) (Bound, error) {
	for _, name := range d.Bindings {
		if _, ok := params[name]; !ok {
			return Bound{}, fmt.Errorf("query %s: missing binding $%s", d.Name, name)
		}
	}
	return Bound{Descriptor: d, Key: d.Key, Params: params, Query: d.Template}, nil
}

// BindFixed adapts catalog descriptors that take no parameters.
func BindFixed(ds ...Descriptor) []Bound {
	bounds := make([]Bound, 0, len(ds))
	for _, d := range ds {
		bounds = append(bounds, Bound{Descriptor: d, Key: d.Key, Query: d.Template})
	}
	return bounds
}

// bindPattern splices case-insensitive name patterns into a template and
// sets the final bundle key. Placeholders are {pattern} for single-name
// templates and {pattern1}/{pattern2} for pair templates.
func bindPattern(d Descriptor, key string, names ...string) Bound {
	query := d.Template
	switch len(names) {
	case 1:
		query = strings.ReplaceAll(query, "{pattern}", containsPattern(names[0]))
	case 2:
		query = strings.ReplaceAll(query, "{pattern1}", containsPattern(names[0]))
		query = strings.ReplaceAll(query, "{pattern2}", containsPattern(names[1]))
	}
	return Bound{Descriptor: d, Key: key, Query: query}
}
