package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIgnored(t *testing.T) {
	t.Parallel()
	patterns := DefaultIgnorePatterns()
	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/foo.js", true},
		{"vendor/github.com/x/y.go", true},
		{"Cargo.lock", true},
		{"web/package-lock.json", true},
		{"image.png", true},
		{"model.gguf", true},
		{".env.local", true},
		{"src/main.rs", false},
		{"README.md", false},
		{"internal/server/handler.go", false},
		{".git/config", true},
		{".git", true},
		{".github/workflows/ci.yml", false},
		{".gitignore", true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Ignored(tt.path, patterns))
		})
	}
}

func TestIgnored_patternKinds(t *testing.T) {
	t.Parallel()
	assert.True(t, Ignored("a/b/c.snap", []string{"*.snap"}), "suffix")
	assert.False(t, Ignored("snap.go", []string{"*.snap"}))
	assert.True(t, Ignored("fixtures/data.json", []string{"fixtures/"}), "prefix")
	assert.False(t, Ignored("test/fixtures/data.json", []string{"fixtures/"}))
	assert.True(t, Ignored("gen/api.pb.go", []string{".pb."}), "substring")
	assert.False(t, Ignored("anything", []string{""}))
	assert.False(t, Ignored("anything", nil))
}

func TestDefaultIgnorePatterns_returnsCopy(t *testing.T) {
	t.Parallel()
	p := DefaultIgnorePatterns()
	p[0] = "mutated"
	assert.NotEqual(t, "mutated", DefaultIgnorePatterns()[0])
}
