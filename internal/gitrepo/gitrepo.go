// Package gitrepo inspects a local git working copy via the git binary.
//
// The operations glrev needs - "what branch am I on" and "what changed
// between an arbitrary base commit and the current index plus working
// tree" - are exactly what `git diff <sha>` computes, including staged
// and unstaged edits the remote host has never seen. No pure-Go library
// reproduces that worktree-inclusive diff, so this package shells out.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNotRepository is returned by Open when the path exists but is not
// inside a git working tree.
var ErrNotRepository = errors.New("not a git repository")

// Repo is a handle on a local git working copy.
type Repo struct {
	path string
}

// Open validates path and returns a repository handle.
// A missing path and a non-repository path fail with distinct errors.
func Open(ctx context.Context, path string) (*Repo, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("repository path %s does not exist: %w", path, err)
	}

	r := &Repo{path: path}
	out, err := r.run(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(out) != "true" {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	return r, nil
}

// Path returns the working copy path the handle was opened with.
func (r *Repo) Path() string { return r.path }

// run executes a git subcommand in the repository and returns its stdout.
// Failures carry git's stderr so the underlying cause is never lost.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", r.path}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Str("repo", r.path).Strs("args", args).Msg("running git")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return stdout.String(), nil
}

// CurrentBranch returns the name of the currently checked-out branch.
// A detached HEAD has no branch name and is reported as an error.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolving current branch: %w", err)
	}
	branch := strings.TrimSpace(out)
	if branch == "" || branch == "HEAD" {
		return "", errors.New("HEAD is detached, no current branch")
	}
	return branch, nil
}

// OriginURL returns the fetch URL of the "origin" remote.
func (r *Repo) OriginURL(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("resolving origin remote: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Entry is one row of a name-status diff: the raw git status code
// ("A", "M", "D", "R100", ...) and the path it applies to. For renames
// the new path is kept, matching what the per-file diff operates on.
type Entry struct {
	Code string
	Path string
}

// NameStatusDiff lists files that differ between base and the current
// state of the repository, index and working tree included. An empty
// result means the working copy is identical to base.
func (r *Repo) NameStatusDiff(ctx context.Context, base string) ([]Entry, error) {
	out, err := r.run(ctx, "diff", "--name-status", base)
	if err != nil {
		return nil, fmt.Errorf("diff --name-status against %s: %w", base, err)
	}

	var entries []Entry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		e := Entry{Code: parts[0], Path: parts[1]}
		// Rename rows are "R<score>\told\tnew"; the new path is the one
		// that exists in the working tree.
		if len(parts) >= 3 && strings.HasPrefix(parts[0], "R") {
			e.Path = parts[2]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FileDiff returns the unified diff (3 context lines) for a single path
// between base and the current working tree.
func (r *Repo) FileDiff(ctx context.Context, base, path string) (string, error) {
	out, err := r.run(ctx, "diff", "--unified=3", base, "--", path)
	if err != nil {
		return "", fmt.Errorf("diff of %s against %s: %w", path, base, err)
	}
	return out, nil
}

// ProjectName extracts a project name from a git remote URL, for both
// SSH and HTTPS forms: the last path segment with any ".git" suffix
// stripped.
func ProjectName(remoteURL string) string {
	s := strings.TrimSuffix(strings.TrimSpace(remoteURL), ".git")
	s = strings.TrimSuffix(s, "/")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	return s
}
