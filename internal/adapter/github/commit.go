package github

import (
	"context"
	"fmt"

	"github.com/etcher-be/igit/internal/diff"
	"github.com/etcher-be/igit/internal/domain"
	"github.com/etcher-be/igit/internal/hosting"
	"github.com/etcher-be/igit/internal/reference"
)

// Commit is a commit on GitHub. The message and per-file patch fragments
// are fetched once at construction; everything derived from them is pure
// computation and safe to call concurrently.
type Commit struct {
	client *Client
	repo   domain.Repository
	data   commitResponse
	refs   reference.List
}

func newCommit(client *Client, repo domain.Repository, data commitResponse) *Commit {
	return &Commit{
		client: client,
		repo:   repo,
		data:   data,
		refs:   reference.Parse(data.Commit.Message, repo),
	}
}

// Sha returns the full commit hash.
func (c *Commit) Sha() string {
	return c.data.SHA
}

// Message returns the commit message.
func (c *Commit) Message() string {
	return c.data.Commit.Message
}

// Parent returns the sha of the first parent, or "" for a root commit.
func (c *Commit) Parent() string {
	if len(c.data.Parents) == 0 {
		return ""
	}
	return c.data.Parents[0].SHA
}

// Repository returns the repository the commit lives in.
func (c *Commit) Repository() domain.Repository {
	return c.repo
}

// PatchForFile returns the bare hunk fragment GitHub delivered for one
// changed file. Binary files yield an empty fragment.
func (c *Commit) PatchForFile(path string) (string, error) {
	for _, f := range c.data.Files {
		if f.Filename == path {
			return f.Patch, nil
		}
	}
	return "", fmt.Errorf("file %s not changed in commit %s", path, c.data.SHA)
}

// UnifiedDiff reconstructs the full multi-file diff with synthesized
// --- a/ and +++ b/ headers, in the order GitHub listed the files.
func (c *Commit) UnifiedDiff() string {
	return diff.BuildAll(c.fileChanges())
}

// Diffstat returns total additions and deletions across all changed files.
func (c *Commit) Diffstat() diff.Stat {
	patches := make([]string, len(c.data.Files))
	for i, f := range c.data.Files {
		patches[i] = f.Patch
	}
	return diff.Aggregate(patches...)
}

func (c *Commit) fileChanges() []diff.FileChange {
	files := make([]diff.FileChange, len(c.data.Files))
	for i, f := range c.data.Files {
		files[i] = diff.FileChange{Path: f.Filename, Patch: f.Patch}
	}
	return files
}

// MentionedIssues returns every issue or merge request referenced anywhere
// in the commit message.
func (c *Commit) MentionedIssues() reference.List {
	return c.refs.Mentioned()
}

// ClosesIssues returns references governed by a close-family verb. The
// relationship holds regardless of whether the commit has been merged.
func (c *Commit) ClosesIssues() reference.List {
	return c.refs.WithVerb(reference.VerbClose)
}

// WillCloseIssues returns close-governed references whose closing action is
// still pending because the commit is not yet on the default branch.
func (c *Commit) WillCloseIssues(ctx context.Context) (reference.List, error) {
	closes := c.ClosesIssues()
	if len(closes) == 0 {
		return nil, nil
	}
	onDefault, err := c.onDefaultBranch(ctx)
	if err != nil {
		return nil, err
	}
	if onDefault {
		return nil, nil
	}
	return closes, nil
}

// WillFixIssues returns references governed by a fix-family verb. Fix verbs
// always denote a pending action, independent of branch state.
func (c *Commit) WillFixIssues() reference.List {
	return c.refs.WithVerb(reference.VerbFix)
}

// WillResolveIssues returns references governed by a resolve-family verb.
func (c *Commit) WillResolveIssues() reference.List {
	return c.refs.WithVerb(reference.VerbResolve)
}

// onDefaultBranch reports whether the commit is reachable from the head of
// the repository's default branch.
func (c *Commit) onDefaultBranch(ctx context.Context) (bool, error) {
	branch, err := c.client.DefaultBranch(ctx, c.repo)
	if err != nil {
		return false, err
	}

	var cmp compareResponse
	path := fmt.Sprintf("/repos/%s/compare/%s...%s", c.repo.FullName(), branch, c.data.SHA)
	if err := c.client.rest.Get(ctx, path, &cmp); err != nil {
		return false, fmt.Errorf("compare %s with %s: %w", c.data.SHA, branch, err)
	}
	return cmp.Status == "identical" || cmp.Status == "behind", nil
}

// Comment places a comment on the commit, or on a merge request when
// opts.MergeRequest is set. With a path and line, the comment is placed
// inline at the diff-relative position of that line in the new file; a line
// that is not part of the diff falls back to an unpositioned comment whose
// body names the file and line, so the caller never gets a silently wrong
// position.
func (c *Commit) Comment(ctx context.Context, body string, opts hosting.CommentOptions) (domain.Comment, error) {
	req := commentRequest{Body: body}
	positioned := false

	if opts.Path != "" && opts.Line > 0 {
		patch, err := c.PatchForFile(opts.Path)
		if err == nil {
			if offset := diff.Parse(patch).FindPosition(opts.Line); offset != nil {
				// The review API counts positions 1-indexed from
				// the first hunk header.
				req.Path = opts.Path
				req.Position = *offset + 1
				positioned = true
			}
		}
	}
	if !positioned && opts.Path != "" {
		note := fmt.Sprintf("Comment on %s", opts.Path)
		if opts.Line > 0 {
			note = fmt.Sprintf("%s, line %d", note, opts.Line)
		}
		req.Body = fmt.Sprintf("%s, not part of the diff.\n\n%s", note, body)
	}

	var path string
	switch {
	case positioned && opts.MergeRequest > 0:
		req.CommitID = c.data.SHA
		path = fmt.Sprintf("/repos/%s/pulls/%d/comments", c.repo.FullName(), opts.MergeRequest)
	case opts.MergeRequest > 0:
		path = fmt.Sprintf("/repos/%s/issues/%d/comments", c.repo.FullName(), opts.MergeRequest)
	default:
		path = fmt.Sprintf("/repos/%s/commits/%s/comments", c.repo.FullName(), c.data.SHA)
	}

	var resp commentResponse
	if err := c.client.rest.Post(ctx, path, req, &resp); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}

	return domain.Comment{
		Body:       resp.Body,
		Path:       resp.Path,
		Line:       opts.Line,
		Positioned: positioned,
	}, nil
}

// githubState maps a domain status onto GitHub's state vocabulary
// (error, failure, pending, success).
func githubState(s domain.Status) string {
	switch s {
	case domain.StatusSuccess:
		return "success"
	case domain.StatusFailed:
		return "failure"
	case domain.StatusErrored, domain.StatusCanceled:
		return "error"
	default:
		return "pending"
	}
}

// SetStatus attaches a CI status to the commit.
func (c *Commit) SetStatus(ctx context.Context, status domain.CommitStatus) error {
	req := createStatusRequest{
		State:       githubState(status.State),
		Description: status.Description,
		Context:     status.Context,
		TargetURL:   status.TargetURL,
	}
	path := fmt.Sprintf("/repos/%s/statuses/%s", c.repo.FullName(), c.data.SHA)
	if err := c.client.rest.Post(ctx, path, req, nil); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// Statuses returns the statuses attached to the commit.
func (c *Commit) Statuses(ctx context.Context) ([]domain.CommitStatus, error) {
	var entries []statusEntry
	path := fmt.Sprintf("/repos/%s/commits/%s/statuses", c.repo.FullName(), c.data.SHA)
	if err := c.client.rest.Get(ctx, path, &entries); err != nil {
		return nil, fmt.Errorf("fetch statuses: %w", err)
	}

	statuses := make([]domain.CommitStatus, len(entries))
	for i, e := range entries {
		statuses[i] = domain.CommitStatus{
			State:       domain.ParseStatus(e.State),
			Description: e.Description,
			Context:     e.Context,
			TargetURL:   e.TargetURL,
		}
	}
	return statuses, nil
}

// CombinedStatus reduces the commit's statuses to a single state.
func (c *Commit) CombinedStatus(ctx context.Context) (domain.Status, error) {
	statuses, err := c.Statuses(ctx)
	if err != nil {
		return domain.StatusPending, err
	}
	return domain.CombinedStatus(statuses), nil
}
