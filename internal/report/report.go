// Package report provides a hierarchical byte-accounting tree used by
// the bench harness to show where a trie's memory actually goes.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Report is a named byte count with nested sub-reports, e.g. a
// hashflat trie's primary array, overflow array, and data array each
// reported under the trie's own total.
type Report struct {
	Name       string   `json:"name"`
	TotalBytes int      `json:"total_bytes"`
	Children   []Report `json:"children,omitempty"`
}

// Leaf builds a childless Report.
func Leaf(name string, bytes int) Report {
	return Report{Name: name, TotalBytes: bytes}
}

// Node builds a Report whose TotalBytes is the sum of its children.
func Node(name string, children ...Report) Report {
	total := 0
	for _, c := range children {
		total += c.TotalBytes
	}
	return Report{Name: name, TotalBytes: total, Children: children}
}

// Print writes the report as an indented tree with human-readable
// byte sizes.
func (r Report) Print(indent int) {
	fmt.Print(r.lines(indent))
}

// String renders the report as an indented tree.
func (r Report) String() string {
	return r.lines(0)
}

func (r Report) lines(indent int) string {
	var sb strings.Builder
	r.buildString(&sb, indent)
	return sb.String()
}

func (r Report) buildString(sb *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(sb, "%s- %s: %s\n", prefix, r.Name, humanize.Bytes(uint64(r.TotalBytes)))
	for _, child := range r.Children {
		child.buildString(sb, indent+1)
	}
}

// JSON renders the report as a JSON document.
func (r Report) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(b)
}
