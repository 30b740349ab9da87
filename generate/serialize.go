package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/casegraph/casegraph/retrieval"
)

// previewRows is how many rows of each result are shown to the model; the
// count line still reflects the full result.
const previewRows = 10

// Serialize renders a bundle in the fixed text format shared by the model
// prompt and the answer verifier: one upper-case header per key, a row
// count for lists, and the first rows as JSON previews. Stats entries
// render as a single indented JSON object.
func Serialize(bundle *retrieval.Bundle) string {
	var b strings.Builder
	b.WriteString("\n=== DATABASE RESULTS ===\n\n")

	if bundle == nil {
		return b.String()
	}
	for _, key := range bundle.Keys() {
		item, ok := bundle.Get(key)
		if !ok {
			continue
		}
		b.WriteString(strings.ToUpper(key))
		b.WriteString(":\n")

		if item.Stats != nil {
			out, err := json.MarshalIndent(item.Stats, "", "  ")
			if err != nil {
				fmt.Fprintf(&b, "%v\n\n", item.Stats)
				continue
			}
			b.Write(out)
			b.WriteString("\n\n")
			continue
		}

		fmt.Fprintf(&b, "Count: %d\n", len(item.Rows))
		for i, row := range item.Rows {
			if i == previewRows {
				fmt.Fprintf(&b, "... and %d more\n", len(item.Rows)-previewRows)
				break
			}
			out, err := json.Marshal(row)
			if err != nil {
				fmt.Fprintf(&b, "- %v\n", row)
				continue
			}
			fmt.Fprintf(&b, "- %s\n", out)
		}
		b.WriteString("\n")
	}
	return b.String()
}
