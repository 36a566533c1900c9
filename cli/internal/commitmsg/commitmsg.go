// Package commitmsg turns raw model output into a single-line conventional
// commit message and asks the model for one.
package commitmsg

import (
	"strings"
)

// Fallback is used when the model output has no "type: description" shape.
const Fallback = "chore: update code"

// types is the accepted commit-type vocabulary, in prompt order.
var types = [...]string{"feat", "fix", "chore", "docs", "style", "refactor", "test", "perf"}

// noise is stripped from the first line wherever it occurs, in this order.
var noise = [...]string{"commit", "Commit:", "Commit message:", `"`, "'", "```", "`"}

// Types returns the accepted commit types.
func Types() []string {
	return append([]string(nil), types[:]...)
}

// IsValidType reports whether s starts with one of Types.
func IsValidType(s string) bool {
	for _, t := range types {
		if strings.HasPrefix(s, t) {
			return true
		}
	}
	return false
}

// Normalize reduces raw model output to one conventional commit line.
//
// Only the first line is kept and noise tokens (quotes, code fences, "commit"
// labels) are removed. Text with no "type: description" shape becomes
// Fallback. A line whose type is not one of Types yields "", which callers
// treat as no usable message. A glyph already leading the line is kept; with
// decorate set, an undecorated message gets one chosen by Decorate.
//
// Normalize is pure: equal inputs give equal outputs, and normalizing its own
// output changes nothing.
func Normalize(raw string, decorate bool) string {
	glyph, rest := splitGlyph(firstLine(raw))
	cleaned := stripNoise(rest)
	if cleaned == "" || !strings.Contains(cleaned, ":") {
		return FallbackMessage(decorate)
	}
	typ, _, _ := strings.Cut(cleaned, ":")
	if !IsValidType(typ) {
		return ""
	}
	if glyph != "" {
		return glyph + " " + cleaned
	}
	if decorate {
		return Decorate(cleaned)
	}
	return cleaned
}

// FallbackMessage returns Fallback, decorated when asked.
func FallbackMessage(decorate bool) string {
	if decorate {
		return Decorate(Fallback)
	}
	return Fallback
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(strings.TrimSuffix(line, "\r"))
}

// stripNoise removes noise tokens until none remain, so a removal that
// assembles a new token is handled too.
func stripNoise(s string) string {
	for {
		prev := s
		for _, tok := range noise {
			s = strings.ReplaceAll(s, tok, "")
		}
		if s == prev {
			return strings.TrimSpace(s)
		}
	}
}
