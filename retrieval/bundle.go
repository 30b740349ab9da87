// Package retrieval turns a question and its extracted entities into an
// ordered evidence bundle: it selects catalog queries with a rule table,
// executes them against the graph store, and collects non-empty results
// under stable keys. Key presence in a bundle means data exists.
package retrieval

import (
	"bytes"
	"encoding/json"

	"github.com/casegraph/casegraph/store"
)

// Item is one bundle entry: either a single aggregate row (Stats) or an
// ordered row list (Rows). Exactly one side is set.
type Item struct {
	Stats store.Row
	Rows  []store.Row
}

// MarshalJSON renders a stats item as an object and a list item as an
// array, matching the shape consumers of the serialized context expect.
func (it Item) MarshalJSON() ([]byte, error) {
	if it.Stats != nil {
		return json.Marshal(it.Stats)
	}
	if it.Rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(it.Rows)
}

// Bundle is an insertion-ordered map of bundle keys to items. Keys are
// never overwritten: the first Add wins, later Adds for the same key are
// dropped.
type Bundle struct {
	keys  []string
	items map[string]Item
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{items: make(map[string]Item)}
}

// Add appends an item under key, preserving insertion order.
func (b *Bundle) Add(key string, item Item) {
	if _, exists := b.items[key]; exists {
		return
	}
	b.keys = append(b.keys, key)
	b.items[key] = item
}

// Get returns the item stored under key.
func (b *Bundle) Get(key string) (Item, bool) {
	item, ok := b.items[key]
	return item, ok
}

// Keys returns the bundle keys in insertion order.
func (b *Bundle) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Len returns the number of keys in the bundle.
func (b *Bundle) Len() int {
	return len(b.keys)
}

// MarshalJSON renders the bundle as a JSON object whose members appear in
// insertion order.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(b.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ExecutedQuery records one query the assembler ran, with the final query
// text after parameter-pattern interpolation.
type ExecutedQuery struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}
