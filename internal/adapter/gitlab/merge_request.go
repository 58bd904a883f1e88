package gitlab

import (
	"context"
	"fmt"

	"github.com/etcher-be/igit/internal/diff"
	"github.com/etcher-be/igit/internal/domain"
)

// MergeRequest is a merge request on GitLab, addressed by its
// project-local iid. Change lists and commit shas are fetched on demand.
type MergeRequest struct {
	client *Client
	repo   domain.Repository
	iid    int
	data   mergeRequestResponse
}

// Number returns the project-local merge request iid.
func (mr *MergeRequest) Number() int {
	return mr.iid
}

// State returns opened, closed, merged or locked.
func (mr *MergeRequest) State() string {
	return mr.data.State
}

// BaseBranch returns the branch the merge request targets.
func (mr *MergeRequest) BaseBranch() string {
	return mr.data.TargetBranch
}

// HeadBranch returns the branch the merge request merges from.
func (mr *MergeRequest) HeadBranch() string {
	return mr.data.SourceBranch
}

// Repository returns the project the merge request targets.
func (mr *MergeRequest) Repository() domain.Repository {
	return mr.repo
}

func (mr *MergeRequest) changes(ctx context.Context) ([]diffEntry, error) {
	var resp mergeRequestChangesResponse
	path := fmt.Sprintf("/projects/%s/merge_requests/%d/changes", projectID(mr.repo), mr.iid)
	if err := mr.client.rest.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch merge request changes: %w", err)
	}
	return resp.Changes, nil
}

// AffectedFiles returns the paths touched by the merge request. Renames
// and deletions contribute their old path as well.
func (mr *MergeRequest) AffectedFiles(ctx context.Context) ([]string, error) {
	changes, err := mr.changes(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, ch := range changes {
		add(ch.NewPath)
		add(ch.OldPath)
	}
	return paths, nil
}

// Diffstat returns total additions and deletions across the merge request.
func (mr *MergeRequest) Diffstat(ctx context.Context) (diff.Stat, error) {
	changes, err := mr.changes(ctx)
	if err != nil {
		return diff.Stat{}, err
	}
	patches := make([]string, len(changes))
	for i, ch := range changes {
		patches[i] = ch.Diff
	}
	return diff.Aggregate(patches...), nil
}

// UnifiedDiff returns the full diff of the merge request. GitLab fragments
// already carry file headers, so they concatenate unchanged.
func (mr *MergeRequest) UnifiedDiff(ctx context.Context) (string, error) {
	changes, err := mr.changes(ctx)
	if err != nil {
		return "", err
	}
	files := make([]diff.FileChange, len(changes))
	for i, ch := range changes {
		files[i] = diff.FileChange{Path: ch.NewPath, Patch: ch.Diff}
	}
	return diff.BuildAll(files), nil
}

// CommitShas returns the shas of the merge request's commits. GitLab lists
// them newest first.
func (mr *MergeRequest) CommitShas(ctx context.Context) ([]string, error) {
	var entries []commitResponse
	path := fmt.Sprintf("/projects/%s/merge_requests/%d/commits", projectID(mr.repo), mr.iid)
	if err := mr.client.rest.Get(ctx, path, &entries); err != nil {
		return nil, fmt.Errorf("fetch merge request commits: %w", err)
	}

	shas := make([]string, len(entries))
	for i, e := range entries {
		shas[i] = e.ID
	}
	return shas, nil
}

func (mr *MergeRequest) setState(ctx context.Context, event string) error {
	path := fmt.Sprintf("/projects/%s/merge_requests/%d", projectID(mr.repo), mr.iid)
	if err := mr.client.rest.Put(ctx, path, stateEventRequest{StateEvent: event}, &mr.data); err != nil {
		return fmt.Errorf("%s merge request: %w", event, err)
	}
	return nil
}

// Close closes the merge request without merging.
func (mr *MergeRequest) Close(ctx context.Context) error {
	return mr.setState(ctx, "close")
}

// Reopen reopens a closed merge request.
func (mr *MergeRequest) Reopen(ctx context.Context) error {
	return mr.setState(ctx, "reopen")
}
