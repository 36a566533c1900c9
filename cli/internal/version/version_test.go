package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	// Save and restore globals so tests don't affect each other.
	savedVersion, savedCommit := Version, Commit
	defer func() { Version, Commit = savedVersion, savedCommit }()

	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{"dev with commit", "dev", "abc1234", "dev (abc1234)"},
		{"dev no commit", "dev", "", "dev"},
		{"release ignores commit", "v1.0.0", "abc1234", "v1.0.0"},
		{"release no commit", "v1.0.0", "", "v1.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit = tt.version, tt.commit
			assert.Equal(t, tt.want, String())
		})
	}
}

func TestNewer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"v0.1.0", "v0.2.0", true},
		{"0.2.0", "v0.2.0", false},
		{"v1.10.0", "v1.9.3", false},
		{"dev", "v0.0.1", true},
		{"", "0.0.1", true},
		{"v1.0.0", "latest", false},
		{"garbage", "v1.0.0", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Newer(tt.current, tt.latest), "Newer(%q, %q)", tt.current, tt.latest)
	}
}
