package naming

import (
	"fmt"
	"io"
)

// Requirements lists the naming rules in the order they are printed to users
var Requirements = []string{
	"Must be between 5 and 50 characters",
	"Can only contain letters, numbers, and hyphens",
	"Cannot start or end with a hyphen",
}

// Report writes a human-readable account of res to w and returns whether
// the name was valid. raw is the input that produced res.
func Report(w io.Writer, raw string, res Result) bool {
	if res.Valid {
		_, _ = fmt.Fprintf(w, "✅ Valid name: %s\n", res.Normalized)
		return true
	}

	_, _ = fmt.Fprintln(w, "❌ Invalid name")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Error: %s\n", res.Error)
	if res.Normalized != "" && res.Normalized != raw {
		_, _ = fmt.Fprintf(w, "Normalized to: %s\n", res.Normalized)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Name requirements:")
	for _, req := range Requirements {
		_, _ = fmt.Fprintf(w, "  • %s\n", req)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Example valid name: %s\n", res.Example)
	return false
}
