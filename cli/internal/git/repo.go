// Package git wraps the repository operations commayte needs: discovery and
// branch lookup through go-git, and the staged diff and commit through the git
// binary so user hooks and config apply.
package git

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"commayte/cli/internal/erruser"
)

// CommitExecutionError means git could not be started for the commit. A commit
// that runs and exits non-zero is reported through the exit code instead.
type CommitExecutionError struct {
	Err error
}

func (e *CommitExecutionError) Error() string {
	return "could not run git commit: " + e.Err.Error()
}

func (e *CommitExecutionError) Unwrap() error { return e.Err }

// Repo is an opened working-tree repository.
type Repo struct {
	repo   *gogit.Repository
	root   string
	gitDir string

	// Stdout and Stderr receive the output of `git commit`; nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Open finds the repository containing dir, walking up parent directories.
func Open(dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolve directory")
	}
	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, erruser.WithHint(
			erruser.New("This directory is not inside a Git repository.", err),
			"Run commayte from a repository, or create one with: git init")
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, erruser.New("This repository has no working tree.", err)
	}
	r := &Repo{repo: repo, root: wt.Filesystem.Root()}
	if fs, ok := repo.Storer.(*filesystem.Storage); ok {
		r.gitDir = fs.Filesystem().Root()
	} else {
		r.gitDir = filepath.Join(r.root, ".git")
	}
	return r, nil
}

// RepoRoot returns the absolute path of the working tree containing dir.
func RepoRoot(dir string) (string, error) {
	r, err := Open(dir)
	if err != nil {
		return "", err
	}
	return r.Root(), nil
}

// Root returns the working tree root.
func (r *Repo) Root() string { return r.root }

// GitDir returns the repository's .git directory.
func (r *Repo) GitDir() string { return r.gitDir }

// Branch returns the short name of the checked-out branch, the branch HEAD
// points to before the first commit, or "HEAD" when detached.
func (r *Repo) Branch() (string, error) {
	head, err := r.repo.Head()
	if err == nil {
		if head.Name().IsBranch() {
			return head.Name().Short(), nil
		}
		return "HEAD", nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", errors.Wrap(err, "read HEAD")
	}
	sym, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", errors.Wrap(err, "read HEAD")
	}
	return sym.Target().Short(), nil
}

// StagedDiff returns `git diff --cached` for the repository. External diff
// drivers and colour are disabled so the output is a plain unified diff.
func (r *Repo) StagedDiff(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--no-color", "--no-ext-diff")
	cmd.Dir = r.root
	cmd.Env = minimalEnv()
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		cause := err
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			cause = errors.Wrap(err, msg)
		}
		return "", erruser.New("Could not read staged changes.", cause)
	}
	return string(out), nil
}

// Commit runs `git commit -am message` and returns git's exit code. err is
// non-nil only when git could not be started (*CommitExecutionError).
func (r *Repo) Commit(ctx context.Context, message string) (int, error) {
	cmd := exec.CommandContext(ctx, "git", "commit", "-am", message)
	cmd.Dir = r.root
	cmd.Env = commitEnv()
	cmd.Stdout = discardIfNil(r.Stdout)
	cmd.Stderr = discardIfNil(r.Stderr)
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	return -1, &CommitExecutionError{Err: err}
}

// Available reports whether a git binary is on PATH.
func Available() (string, bool) {
	path, err := exec.LookPath("git")
	return path, err == nil
}

func discardIfNil(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
