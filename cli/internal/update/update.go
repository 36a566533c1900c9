// Package update checks GitHub for a newer commayte release. It only
// reports; installing is left to the user's package manager or installer.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"commayte/cli/internal/version"
)

const (
	// DefaultAPIBase is the GitHub REST API root.
	DefaultAPIBase = "https://api.github.com"
	_userAgent     = "Commayte-Update-Checker"
	_checkTimeout  = 10 * time.Second
)

// ErrNoRelease is returned when the repository has no published release.
var ErrNoRelease = errors.New("no published release")

// Release is the subset of a GitHub release that the check reads.
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// Version is the tag without a leading "v".
func (r Release) Version() string { return strings.TrimPrefix(r.TagName, "v") }

// Status compares the running build with the latest release.
type Status struct {
	Current   string
	Latest    Release
	Available bool
}

// Checker queries the latest release of Repo ("owner/name").
type Checker struct {
	APIBase    string
	Repo       string
	HTTPClient *http.Client
}

// Latest fetches the repository's latest release.
func (c *Checker) Latest(ctx context.Context) (Release, error) {
	base := strings.TrimSuffix(c.APIBase, "/")
	if base == "" {
		base = DefaultAPIBase
	}
	repo := strings.Trim(c.Repo, "/ ")
	if strings.Count(repo, "/") != 1 {
		return Release{}, errors.Newf("update repo %q must be owner/name", c.Repo)
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, _checkTimeout)
	defer cancel()
	url := fmt.Sprintf("%s/repos/%s/releases/latest", base, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Release{}, errors.Wrap(err, "build release request")
	}
	req.Header.Set("User-Agent", _userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return Release{}, errors.Wrap(err, "fetch latest release")
	}
	defer func() { _ = resp.Body.Close() }()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Release{}, errors.Wrapf(ErrNoRelease, "%s", repo)
	case resp.StatusCode != http.StatusOK:
		return Release{}, errors.Newf("fetch latest release: %s", resp.Status)
	}
	var rel Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&rel); err != nil {
		return Release{}, errors.Wrap(err, "decode release")
	}
	if rel.TagName == "" {
		return Release{}, errors.New("release has no tag")
	}
	return rel, nil
}

// Check reports whether the latest release is newer than current.
func (c *Checker) Check(ctx context.Context, current string) (Status, error) {
	rel, err := c.Latest(ctx)
	if err != nil {
		return Status{Current: current}, err
	}
	return Status{
		Current:   current,
		Latest:    rel,
		Available: version.Newer(current, rel.TagName),
	}, nil
}
