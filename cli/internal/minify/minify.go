// Package minify shrinks a unified diff before it is budgeted: in files of
// languages where indentation carries no meaning, hunk lines lose their
// leading whitespace and runs of blanks collapse to one. The +/-/space
// prefix of every line, file headers and hunk headers are kept.
package minify

import (
	"path/filepath"
	"regexp"
	"strings"

	"commayte/cli/internal/diff"
)

// hunkHeaderRegex matches @@ -oldStart,oldCount +newStart,newCount @@.
var hunkHeaderRegex = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+\d+(?:,\d+)? @@`)

// braceExts are languages whose blocks are delimited by braces or keywords.
var braceExts = map[string]struct{}{
	".go": {}, ".rs": {}, ".c": {}, ".h": {}, ".cc": {}, ".cpp": {}, ".hpp": {},
	".java": {}, ".kt": {}, ".scala": {}, ".swift": {}, ".cs": {}, ".dart": {},
	".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {}, ".php": {}, ".css": {}, ".scss": {},
}

// Eligible reports whether hunks of path may be minified. Python, YAML,
// Makefiles, Markdown and anything unknown are left alone.
func Eligible(path string) bool {
	_, ok := braceExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Diff returns raw with the hunk lines of eligible files minified. Lines
// outside hunks and all lines of other files are returned unchanged.
func Diff(raw string) string {
	if raw == "" {
		return raw
	}
	lines := strings.Split(raw, "\n")
	active, inHunk := false, false
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git"):
			path, _ := diff.ParseHeaderPath(line)
			active, inHunk = Eligible(path), false
		case hunkHeaderRegex.MatchString(line):
			inHunk = true
		case active && inHunk:
			lines[i] = minifyLine(line)
		}
	}
	return strings.Join(lines, "\n")
}

// minifyLine keeps the first byte of a hunk line (space, - or +) and
// compacts the rest. Other lines, such as "\ No newline at end of file",
// pass through.
func minifyLine(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case ' ', '+', '-':
	default:
		return line
	}
	rest := strings.TrimLeft(line[1:], " \t")
	return line[:1] + collapseSpaces(rest)
}

// collapseSpaces replaces runs of spaces (and tabs) with a single space.
// Does not modify newlines or other characters.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	wasSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
			continue
		}
		wasSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
