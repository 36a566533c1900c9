// Package diff turns the raw output of `git diff --cached` into a bounded,
// noise-reduced string suitable for a commit-message prompt.
//
// # File sections
// Each section starts at a "diff --git a/<path> b/<path>" header. Sections whose
// path matches an ignore pattern (lock files, vendored or generated output,
// binaries, media, ...) are dropped entirely. A header whose path cannot be
// parsed keeps its section.
//
// # Budgets
// Two ceilings bound the result: a per-file ceiling truncates each kept section
// (appending FileTruncatedMarker), and a total ceiling stops the scan as soon as
// the next section would not fit (appending TruncatedMarker once). Sizes are
// counted in characters (Unicode code points), separators included, and room
// for the separator before the marker is reserved, so the output never exceeds
// Total + len(TruncatedMarker).
//
// # Empty diff
// When nothing is staged, or every section is ignored, Filter returns "" and
// callers report that there is nothing to commit.
package diff

import (
	"strings"
	"unicode/utf8"
)

const (
	fileHeaderPrefix = "diff --git"

	// FileTruncatedMarker is appended to a file section cut at Budget.PerFile.
	FileTruncatedMarker = "\n... (file truncated)"
	// TruncatedMarker is appended once when the total budget is exhausted.
	TruncatedMarker = "... (diff truncated due to size limit)"
	// Separator joins retained file sections.
	Separator = "\n\n"
)

// Budget holds the two size ceilings of Filter, in characters. A ceiling <= 0
// disables that limit.
type Budget struct {
	PerFile int
	Total   int
}

// DefaultBudget is used when no performance tier or configuration applies.
var DefaultBudget = Budget{PerFile: 1000, Total: 8000}

// Entry is one file section of a unified diff. Header is the "diff --git" line
// ("" for lines preceding the first header). Lines holds the section body and
// is empty when the entry is excluded. Entries are never modified after the
// scan hands them out.
type Entry struct {
	Header   string
	Path     string // "" when Header could not be parsed
	Lines    []string
	Included bool
}

// Content returns the header and body joined by newlines.
func (e Entry) Content() string {
	var b strings.Builder
	if e.Header != "" {
		b.WriteString(e.Header)
	}
	for _, l := range e.Lines {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l)
	}
	return b.String()
}

// Filter drops ignored file sections from raw, truncates the rest to
// budget.PerFile, and stops once budget.Total would be exceeded. Retained
// sections are joined with Separator.
//
// A section is only known to be the last one when the next header or the end
// of input is reached, so decisions lag one section behind the scan. A section
// followed by another must leave room for the Separator that would precede
// TruncatedMarker; the last section only has to fit itself.
func Filter(raw string, patterns []string, budget Budget) string {
	var out []string
	used := 0
	pending, havePending := "", false
	// place retains content or appends the marker; false stops the scan.
	place := func(content string, last bool) bool {
		cost := utf8.RuneCountInString(content)
		if len(out) > 0 {
			cost += len(Separator)
		}
		need := cost
		if !last {
			need += len(Separator)
		}
		if budget.Total > 0 && used+need > budget.Total {
			out = append(out, TruncatedMarker)
			return false
		}
		out = append(out, content)
		used += cost
		return true
	}
	stopped := false
	scan(raw, patterns, func(e Entry) bool {
		if !e.Included {
			return true
		}
		content := e.Content()
		if content == "" {
			return true
		}
		content = truncate(content, budget.PerFile)
		if havePending && !place(pending, false) {
			stopped = true
			return false
		}
		pending, havePending = content, true
		return true
	})
	if havePending && !stopped {
		place(pending, true)
	}
	return strings.Join(out, Separator)
}

// Entries returns every file section of raw with its inclusion decision, in
// order. Budgets are not applied; used for tracing what Filter will see.
func Entries(raw string, patterns []string) []Entry {
	var entries []Entry
	scan(raw, patterns, func(e Entry) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}

// scan walks raw line by line and calls emit for each finished section. When
// emit returns false the remaining input is not read.
func scan(raw string, patterns []string, emit func(Entry) bool) {
	cur := Entry{Included: true}
	for _, line := range splitLines(raw) {
		if strings.HasPrefix(line, fileHeaderPrefix) {
			if !emitPending(cur, emit) {
				return
			}
			cur = Entry{Header: line, Included: true}
			if path, ok := ParseHeaderPath(line); ok {
				cur.Path = path
				cur.Included = !Ignored(path, patterns)
			}
			continue
		}
		if cur.Included {
			cur.Lines = append(cur.Lines, line)
		}
	}
	emitPending(cur, emit)
}

// emitPending hands cur to emit unless it is a blank prelude.
func emitPending(cur Entry, emit func(Entry) bool) bool {
	if cur.Header == "" && strings.TrimSpace(strings.Join(cur.Lines, "")) == "" {
		return true
	}
	return emit(cur)
}

func splitLines(raw string) []string {
	raw = strings.TrimSuffix(raw, "\n")
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// truncate cuts s to max characters and appends FileTruncatedMarker when it
// was longer. max <= 0 leaves s unchanged.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i] + FileTruncatedMarker
		}
		n++
	}
	return s
}

// ParseHeaderPath extracts the a-side path from "diff --git a/<path> b/<path>".
// Returns false when the header does not have that shape.
func ParseHeaderPath(header string) (string, bool) {
	start := strings.Index(header, "a/")
	if start < 0 {
		return "", false
	}
	rest := header[start+2:]
	end := strings.Index(rest, " b/")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
