// Package version holds the CLI version string. Default is "dev"; release
// builds can set it via: go build -ldflags "-X commayte/cli/internal/version.Version=v1.0.0"
// Commit is the short (7-char) git commit hash for dev builds; set by Makefile.
package version

import (
	goversion "github.com/hashicorp/go-version"
)

// Version is the commayte CLI version. Set at build time for releases.
var Version = "dev"

// Commit is the short git commit hash (e.g. 7 chars). Set at build time for dev builds via ldflags.
var Commit = ""

// String returns the version string for display (e.g. --version, the header line).
// For dev builds with Commit set, returns "dev (abc1234)"; otherwise returns Version.
func String() string {
	if Version != "dev" || Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}

// Newer reports whether latest is a newer release than current. A "dev" current
// version is older than any parseable release. Unparseable latest tags are
// never newer. A leading "v" is accepted on both sides.
func Newer(current, latest string) bool {
	lv, err := goversion.NewVersion(latest)
	if err != nil {
		return false
	}
	if current == "" || current == "dev" {
		return true
	}
	cv, err := goversion.NewVersion(current)
	if err != nil {
		return true
	}
	return lv.GreaterThan(cv)
}
