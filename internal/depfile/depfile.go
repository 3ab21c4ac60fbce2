// Package depfile parses GCC-emitted Makefile-fragment dependency files
// (the output of `-MMD -MP -MF <path>`) into a set of prerequisite paths.
package depfile

import (
	"os"
	"sort"
	"strings"
)

// Record is the parsed form of one .d file: the set of prerequisite paths
// the corresponding object depends on. A nil Record (reported by Unknown)
// means the dependency information could not be established and the
// owning translation unit must be treated as stale.
type Record struct {
	Prereqs map[string]struct{}
}

// Unknown reports whether r represents an absent or malformed dependency
// record, forcing recompilation of the owning translation unit.
func (r *Record) Unknown() bool {
	return r == nil
}

// Sorted returns the record's prerequisite paths in sorted order.
func (r *Record) Sorted() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Prereqs))
	for p := range r.Prereqs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Parse reads and parses the dependency file at path. A missing file, an
// I/O error, or a malformed fragment yields a nil Record (the "unknown"
// state) rather than an error, matching the staleness oracle's contract:
// callers should treat a nil Record as "must recompile", not as fatal.
func Parse(path string) *Record {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return ParseContent(string(content))
}

// ParseContent parses raw dependency-file text into a Record, or returns
// nil if the text contains no parsable target/prerequisite line at all.
func ParseContent(content string) *Record {
	joined := joinContinuationLines(content)

	prereqs := make(map[string]struct{})
	found := false

	for _, line := range strings.Split(joined, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		colon := findUnescapedColon(line)
		if colon < 0 {
			continue
		}
		found = true
		for _, tok := range splitDeps(line[colon+1:]) {
			prereqs[tok] = struct{}{}
		}
	}

	if !found {
		return nil
	}
	return &Record{Prereqs: prereqs}
}

// joinContinuationLines replaces a backslash immediately followed by a
// newline (optionally preceded by a carriage return) with a single space.
func joinContinuationLines(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' && i+1 < len(runes) {
			if runes[i+1] == '\n' {
				b.WriteByte(' ')
				i++
				continue
			}
			if runes[i+1] == '\r' && i+2 < len(runes) && runes[i+2] == '\n' {
				b.WriteByte(' ')
				i += 2
				continue
			}
		}
		b.WriteRune(c)
	}
	return b.String()
}

// findUnescapedColon returns the index of the first ':' in line not
// preceded by a backslash, or -1 if none exists.
func findUnescapedColon(line string) int {
	runes := []rune(line)
	for i, c := range runes {
		if c == ':' && (i == 0 || runes[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// splitDeps tokenizes a dependency-file prerequisite list on unescaped
// whitespace. `\ ` unescapes to a literal space and `\\` to a literal
// backslash; any other backslash sequence is kept verbatim.
func splitDeps(s string) []string {
	var tokens []string
	var cur strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '\\':
			if i+1 < len(runes) && runes[i+1] == ' ' {
				cur.WriteByte(' ')
				i++
			} else if i+1 < len(runes) && runes[i+1] == '\\' {
				cur.WriteByte('\\')
				i++
			} else {
				cur.WriteRune('\\')
			}
		case ' ', '\t', '\n', '\r':
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(c)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
