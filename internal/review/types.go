// Package review holds the domain model and the decision logic of glrev:
// which review comments are still actionable, how a set of changed files
// becomes a single diff transcript, and how failed CI jobs are reported.
// Remote and local data sources are consumed through small interfaces so
// the logic stays testable without a GitLab instance or a git checkout.
package review

import (
	"context"
	"errors"

	"github.com/glrev/glrev/internal/gitrepo"
)

// ErrNoMergeRequest indicates that no merge request exists for the
// current branch in any state. Callers render a user-facing sentence
// for it; it is a normal outcome, not a failure.
var ErrNoMergeRequest = errors.New("no merge request found for branch")

// MergeRequest is the snapshot of a remote merge request glrev works
// with. It is fetched fresh per operation and never cached.
type MergeRequest struct {
	IID          int
	SourceBranch string
	State        string // opened, merged or closed

	// HasDiffRefs reports whether the host returned diff_refs at all;
	// BaseSHA may still be empty when it did.
	HasDiffRefs bool
	BaseSHA     string

	// PipelineID is the head pipeline's ID, 0 when the MR has none.
	PipelineID int
}

// Note is a single comment inside a discussion thread.
type Note struct {
	System     bool
	Resolvable bool
	Resolved   bool
	Path       string // file the note is anchored to, empty if unanchored
	Line       int    // anchored line, 0 when the anchor has no line
	Author     string
	Body       string
}

// Thread is an ordered discussion thread on a merge request.
type Thread struct {
	Notes []Note
}

// Comment is one actionable review comment ready for rendering.
type Comment struct {
	Path   string
	Line   int
	Author string
	Body   string
}

// JobFailure is a failed CI job together with its console trace.
type JobFailure struct {
	Name   string
	Status string
	Trace  string
}

// ChangeKind classifies how a file changed relative to the base commit.
type ChangeKind string

const (
	KindAdded    ChangeKind = "added"
	KindDeleted  ChangeKind = "deleted"
	KindRenamed  ChangeKind = "renamed"
	KindModified ChangeKind = "modified"
)

// Label returns the Japanese label used in rendered reports.
func (k ChangeKind) Label() string {
	switch k {
	case KindAdded:
		return "新規追加"
	case KindDeleted:
		return "削除"
	case KindRenamed:
		return "名前変更"
	default:
		return "変更"
	}
}

// ChangedFile is one file's contribution to a change report. Err records
// a per-file diff failure; the entry is still rendered so one broken
// file never hides the rest of the review.
type ChangedFile struct {
	Path string
	Kind ChangeKind
	Diff string
	Err  error
}

// Repo is the local-repository inspector the review logic depends on.
// *gitrepo.Repo satisfies it.
type Repo interface {
	CurrentBranch(ctx context.Context) (string, error)
	NameStatusDiff(ctx context.Context, base string) ([]gitrepo.Entry, error)
	FileDiff(ctx context.Context, base, path string) (string, error)
}

// Host is the remote project host the review logic depends on.
// *glclient.Client satisfies it.
type Host interface {
	// MergeRequestForBranch resolves the merge request for a source
	// branch, or ErrNoMergeRequest when none exists in any state.
	MergeRequestForBranch(ctx context.Context, branch string) (*MergeRequest, error)
	// FailedJobs returns the failed jobs of the MR's latest pipeline
	// with their traces. Empty when there is no pipeline or no failure.
	FailedJobs(ctx context.Context, mrIID int) ([]JobFailure, error)
	// Discussions returns all discussion threads of the MR.
	Discussions(ctx context.Context, mrIID int) ([]Thread, error)
}
