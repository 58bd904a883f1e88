package gitlab

import (
	"context"
	"fmt"

	"github.com/etcher-be/igit/internal/diff"
	"github.com/etcher-be/igit/internal/domain"
	"github.com/etcher-be/igit/internal/hosting"
	"github.com/etcher-be/igit/internal/reference"
)

// Commit is a commit on GitLab. The message and per-file diff fragments
// are fetched once at construction; everything derived from them is pure
// computation and safe to call concurrently.
type Commit struct {
	client *Client
	repo   domain.Repository
	data   commitResponse
	diffs  []diffEntry
	refs   reference.List
}

func newCommit(client *Client, repo domain.Repository, data commitResponse, diffs []diffEntry) *Commit {
	return &Commit{
		client: client,
		repo:   repo,
		data:   data,
		diffs:  diffs,
		refs:   reference.Parse(data.Message, repo),
	}
}

// Sha returns the full commit hash.
func (c *Commit) Sha() string {
	return c.data.ID
}

// Message returns the commit message.
func (c *Commit) Message() string {
	return c.data.Message
}

// Parent returns the sha of the first parent, or "" for a root commit.
func (c *Commit) Parent() string {
	if len(c.data.ParentIDs) == 0 {
		return ""
	}
	return c.data.ParentIDs[0]
}

// Repository returns the repository the commit lives in.
func (c *Commit) Repository() domain.Repository {
	return c.repo
}

// PatchForFile returns the diff fragment GitLab delivered for one changed
// file, matched by its new path, or old path for deleted files.
func (c *Commit) PatchForFile(path string) (string, error) {
	for _, d := range c.diffs {
		if d.NewPath == path || (d.DeletedFile && d.OldPath == path) {
			return d.Diff, nil
		}
	}
	return "", fmt.Errorf("file %s not changed in commit %s", path, c.data.ID)
}

// UnifiedDiff returns the full multi-file diff. GitLab fragments already
// carry file headers, so they concatenate unchanged.
func (c *Commit) UnifiedDiff() string {
	return diff.BuildAll(c.fileChanges())
}

// Diffstat returns total additions and deletions across all changed files.
func (c *Commit) Diffstat() diff.Stat {
	patches := make([]string, len(c.diffs))
	for i, d := range c.diffs {
		patches[i] = d.Diff
	}
	return diff.Aggregate(patches...)
}

func (c *Commit) fileChanges() []diff.FileChange {
	files := make([]diff.FileChange, len(c.diffs))
	for i, d := range c.diffs {
		files[i] = diff.FileChange{Path: d.NewPath, Patch: d.Diff}
	}
	return files
}

// MentionedIssues returns every issue or merge request referenced anywhere
// in the commit message.
func (c *Commit) MentionedIssues() reference.List {
	return c.refs.Mentioned()
}

// ClosesIssues returns references governed by a close-family verb.
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

// WillFixIssues returns references governed by a fix-family verb.
func (c *Commit) WillFixIssues() reference.List {
	return c.refs.WithVerb(reference.VerbFix)
}

// WillResolveIssues returns references governed by a resolve-family verb.
func (c *Commit) WillResolveIssues() reference.List {
	return c.refs.WithVerb(reference.VerbResolve)
}

// onDefaultBranch reports whether the commit is reachable from the head of
// the project's default branch, using the refs listing of the commit.
func (c *Commit) onDefaultBranch(ctx context.Context) (bool, error) {
	branch, err := c.client.DefaultBranch(ctx, c.repo)
	if err != nil {
		return false, err
	}

	var refs []refEntry
	path := fmt.Sprintf("/projects/%s/repository/commits/%s/refs?type=branch", projectID(c.repo), c.data.ID)
	if err := c.client.rest.Get(ctx, path, &refs); err != nil {
		return false, fmt.Errorf("fetch refs of %s: %w", c.data.ID, err)
	}
	for _, r := range refs {
		if r.Name == branch {
			return true, nil
		}
	}
	return false, nil
}

// Comment places a comment on the commit, or on a merge request when
// opts.MergeRequest is set. With a path and line that is part of the diff,
// the comment is anchored to that line of the new file version; a line
// outside the diff falls back to an unpositioned comment whose body names
// the file and line.
func (c *Commit) Comment(ctx context.Context, body string, opts hosting.CommentOptions) (domain.Comment, error) {
	positioned := false
	if opts.Path != "" && opts.Line > 0 {
		patch, err := c.PatchForFile(opts.Path)
		if err == nil && diff.Parse(patch).FindPosition(opts.Line) != nil {
			positioned = true
		}
	}

	if positioned {
		req := commitCommentRequest{
			Note:     body,
			Path:     opts.Path,
			Line:     opts.Line,
			LineType: "new",
		}
		var resp commitCommentResponse
		path := fmt.Sprintf("/projects/%s/repository/commits/%s/comments", projectID(c.repo), c.data.ID)
		if err := c.client.rest.Post(ctx, path, req, &resp); err != nil {
			return domain.Comment{}, fmt.Errorf("create commit comment: %w", err)
		}
		return domain.Comment{
			Body:       resp.Note,
			Path:       resp.Path,
			Line:       resp.Line,
			Positioned: true,
		}, nil
	}

	if opts.Path != "" {
		note := fmt.Sprintf("Comment on %s", opts.Path)
		if opts.Line > 0 {
			note = fmt.Sprintf("%s, line %d", note, opts.Line)
		}
		body = fmt.Sprintf("%s, not part of the diff.\n\n%s", note, body)
	}

	if opts.MergeRequest > 0 {
		var resp noteResponse
		path := fmt.Sprintf("/projects/%s/merge_requests/%d/notes", projectID(c.repo), opts.MergeRequest)
		if err := c.client.rest.Post(ctx, path, noteRequest{Body: body}, &resp); err != nil {
			return domain.Comment{}, fmt.Errorf("create merge request note: %w", err)
		}
		return domain.Comment{Body: resp.Body, Path: opts.Path, Line: opts.Line}, nil
	}

	var resp commitCommentResponse
	path := fmt.Sprintf("/projects/%s/repository/commits/%s/comments", projectID(c.repo), c.data.ID)
	if err := c.client.rest.Post(ctx, path, commitCommentRequest{Note: body}, &resp); err != nil {
		return domain.Comment{}, fmt.Errorf("create commit comment: %w", err)
	}
	return domain.Comment{Body: resp.Note, Path: opts.Path, Line: opts.Line}, nil
}

// gitlabState maps a domain status onto GitLab's state vocabulary. GitLab
// has no separate errored state, so errored reports as failed.
func gitlabState(s domain.Status) string {
	if s == domain.StatusErrored {
		return "failed"
	}
	return s.String()
}

// SetStatus attaches a CI status to the commit.
func (c *Commit) SetStatus(ctx context.Context, status domain.CommitStatus) error {
	req := createStatusRequest{
		State:       gitlabState(status.State),
		Description: status.Description,
		Context:     status.Context,
		TargetURL:   status.TargetURL,
	}
	path := fmt.Sprintf("/projects/%s/statuses/%s", projectID(c.repo), c.data.ID)
	if err := c.client.rest.Post(ctx, path, req, nil); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// Statuses returns the statuses attached to the commit.
func (c *Commit) Statuses(ctx context.Context) ([]domain.CommitStatus, error) {
	var entries []statusEntry
	path := fmt.Sprintf("/projects/%s/repository/commits/%s/statuses", projectID(c.repo), c.data.ID)
	if err := c.client.rest.Get(ctx, path, &entries); err != nil {
		return nil, fmt.Errorf("fetch statuses: %w", err)
	}

	statuses := make([]domain.CommitStatus, len(entries))
	for i, e := range entries {
		statuses[i] = domain.CommitStatus{
			State:       domain.ParseStatus(e.Status),
			Description: e.Description,
			Context:     e.Name,
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
