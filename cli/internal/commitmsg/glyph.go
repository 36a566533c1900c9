package commitmsg

import (
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

const defaultGlyph = "🔖"

var glyphs = map[string][]string{
	"feat":     {"✨", "🚀", "🎉", "🌟"},
	"fix":      {"🐛", "🩹", "🔧", "🚑"},
	"chore":    {"🧹", "🔨", "📦", "⚙️"},
	"docs":     {"📝", "📚", "📖"},
	"style":    {"💄", "🎨", "💅"},
	"refactor": {"♻️", "🏗️", "🔀"},
	"test":     {"✅", "🧪", "🚦"},
	"perf":     {"⚡", "🏎️", "📈"},
}

// Glyphs returns the candidate glyphs for a commit type, or the default glyph.
func Glyphs(typ string) []string {
	if c, ok := glyphs[typ]; ok {
		return append([]string(nil), c...)
	}
	return []string{defaultGlyph}
}

// Decorate prefixes msg with a glyph for its type unless it already starts
// with one. The glyph is picked by hashing msg, so the same message always
// gets the same glyph.
func Decorate(msg string) string {
	if HasGlyph(msg) {
		return msg
	}
	candidates, ok := glyphs[BaseType(msg)]
	if !ok {
		return defaultGlyph + " " + msg
	}
	return candidates[xxhash.Sum64String(msg)%uint64(len(candidates))] + " " + msg
}

// BaseType returns the type of "type(scope)!: description", without scope or
// breaking-change marker.
func BaseType(msg string) string {
	head, _, _ := strings.Cut(msg, ":")
	head, _, _ = strings.Cut(head, "(")
	return strings.TrimSuffix(strings.TrimSpace(head), "!")
}

// HasGlyph reports whether s starts with a pictographic symbol.
func HasGlyph(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return isGlyphRune(r)
}

func isGlyphRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, transport, supplemental symbols
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows and shapes
		return true
	}
	return false
}

// isGlyphJoiner reports runes that continue a glyph sequence.
func isGlyphJoiner(r rune) bool {
	return r == 0xFE0F || r == 0x200D
}

// splitGlyph separates a leading glyph sequence from the rest of s.
func splitGlyph(s string) (glyph, rest string) {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isGlyphRune(r) && !(i > 0 && isGlyphJoiner(r)) {
			break
		}
		i += size
	}
	return s[:i], strings.TrimSpace(s[i:])
}
