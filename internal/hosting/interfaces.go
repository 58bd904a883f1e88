// Package hosting defines the host-agnostic surface shared by the GitHub,
// GitLab and local backends. Adapters fetch raw message text and patch
// fragments up front; everything derived from them is computed on demand
// from immutable data and is safe to call concurrently.
package hosting

import (
	"context"

	"github.com/etcher-be/igit/internal/diff"
	"github.com/etcher-be/igit/internal/domain"
	"github.com/etcher-be/igit/internal/reference"
)

// CommentOptions targets a comment at a diff line, and optionally at the
// merge request the commit belongs to instead of the bare commit.
type CommentOptions struct {
	Path         string
	Line         int
	MergeRequest int
}

// Commit is a single commit on some backend.
type Commit interface {
	Sha() string
	Message() string
	Parent() string
	Repository() domain.Repository

	// PatchForFile returns the backend-native patch fragment for one file.
	PatchForFile(path string) (string, error)
	// UnifiedDiff returns the full multi-file diff with synthesized headers.
	UnifiedDiff() string
	// Diffstat returns total additions and deletions of the commit.
	Diffstat() diff.Stat

	// MentionedIssues is the superset of all references in the message.
	MentionedIssues() reference.List
	// ClosesIssues holds close-governed references, merged or not.
	ClosesIssues() reference.List
	// WillCloseIssues holds close-governed references whose closing has
	// not taken effect because the commit is not on the default branch.
	WillCloseIssues(ctx context.Context) (reference.List, error)
	WillFixIssues() reference.List
	WillResolveIssues() reference.List

	Comment(ctx context.Context, body string, opts CommentOptions) (domain.Comment, error)
	SetStatus(ctx context.Context, status domain.CommitStatus) error
	Statuses(ctx context.Context) ([]domain.CommitStatus, error)
	CombinedStatus(ctx context.Context) (domain.Status, error)
}

// MergeRequest is a merge/pull request on a remote backend.
type MergeRequest interface {
	Number() int
	State() string
	BaseBranch() string
	HeadBranch() string
	Repository() domain.Repository

	AffectedFiles(ctx context.Context) ([]string, error)
	Diffstat(ctx context.Context) (diff.Stat, error)
	UnifiedDiff(ctx context.Context) (string, error)
	CommitShas(ctx context.Context) ([]string, error)

	Close(ctx context.Context) error
	Reopen(ctx context.Context) error
}
