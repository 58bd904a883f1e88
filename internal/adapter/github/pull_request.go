package github

import (
	"context"
	"fmt"

	"github.com/etcher-be/igit/internal/diff"
	"github.com/etcher-be/igit/internal/domain"
)

// PullRequest is a pull request on GitHub. File lists and commit shas are
// fetched on demand; the core fields come from the initial fetch.
type PullRequest struct {
	client *Client
	repo   domain.Repository
	number int
	data   pullRequestResponse
}

// Number returns the pull request number.
func (pr *PullRequest) Number() int {
	return pr.number
}

// State returns open, closed or merged.
func (pr *PullRequest) State() string {
	if pr.data.Merged {
		return "merged"
	}
	return pr.data.State
}

// BaseBranch returns the branch the pull request targets.
func (pr *PullRequest) BaseBranch() string {
	return pr.data.Base.Ref
}

// HeadBranch returns the branch the pull request merges from.
func (pr *PullRequest) HeadBranch() string {
	return pr.data.Head.Ref
}

// Repository returns the repository the pull request targets.
func (pr *PullRequest) Repository() domain.Repository {
	return pr.repo
}

func (pr *PullRequest) files(ctx context.Context) ([]diff.FileChange, error) {
	var entries []fileEntry
	path := fmt.Sprintf("/repos/%s/pulls/%d/files", pr.repo.FullName(), pr.number)
	if err := pr.client.rest.Get(ctx, path, &entries); err != nil {
		return nil, fmt.Errorf("fetch pull request files: %w", err)
	}

	files := make([]diff.FileChange, len(entries))
	for i, e := range entries {
		files[i] = diff.FileChange{Path: e.Filename, Patch: e.Patch}
	}
	return files, nil
}

// AffectedFiles returns the paths touched by the pull request.
func (pr *PullRequest) AffectedFiles(ctx context.Context) ([]string, error) {
	files, err := pr.files(ctx)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, nil
}

// Diffstat returns total additions and deletions across the pull request.
func (pr *PullRequest) Diffstat(ctx context.Context) (diff.Stat, error) {
	files, err := pr.files(ctx)
	if err != nil {
		return diff.Stat{}, err
	}
	patches := make([]string, len(files))
	for i, f := range files {
		patches[i] = f.Patch
	}
	return diff.Aggregate(patches...), nil
}

// UnifiedDiff reconstructs the full diff of the pull request with
// synthesized file headers.
func (pr *PullRequest) UnifiedDiff(ctx context.Context) (string, error) {
	files, err := pr.files(ctx)
	if err != nil {
		return "", err
	}
	return diff.BuildAll(files), nil
}

// CommitShas returns the shas of the pull request's commits in order.
func (pr *PullRequest) CommitShas(ctx context.Context) ([]string, error) {
	var entries []commitListEntry
	path := fmt.Sprintf("/repos/%s/pulls/%d/commits", pr.repo.FullName(), pr.number)
	if err := pr.client.rest.Get(ctx, path, &entries); err != nil {
		return nil, fmt.Errorf("fetch pull request commits: %w", err)
	}

	shas := make([]string, len(entries))
	for i, e := range entries {
		shas[i] = e.SHA
	}
	return shas, nil
}

func (pr *PullRequest) setState(ctx context.Context, state string) error {
	path := fmt.Sprintf("/repos/%s/pulls/%d", pr.repo.FullName(), pr.number)
	body := map[string]string{"state": state}
	if err := pr.client.rest.Patch(ctx, path, body, &pr.data); err != nil {
		return fmt.Errorf("set pull request state to %s: %w", state, err)
	}
	return nil
}

// Close closes the pull request without merging.
func (pr *PullRequest) Close(ctx context.Context) error {
	return pr.setState(ctx, "closed")
}

// Reopen reopens a closed pull request.
func (pr *PullRequest) Reopen(ctx context.Context) error {
	return pr.setState(ctx, "open")
}
