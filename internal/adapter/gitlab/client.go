// Package gitlab adapts the GitLab API v4 to the hosting interfaces.
// Unlike GitHub, GitLab delivers per-file diffs with --- a/ and +++ b/
// headers already attached, and exposes one more commit state (running).
package gitlab

import (
	"context"
	"fmt"
	"net/url"

	"github.com/etcher-be/igit/internal/adapter/rest"
	"github.com/etcher-be/igit/internal/domain"
)

const defaultBaseURL = "https://gitlab.com/api/v4"

// Client is an HTTP client for the GitLab API.
type Client struct {
	rest *rest.Client
}

// NewClient creates a GitLab API client with the given token. Both OAuth
// and personal access tokens are accepted as bearer tokens.
func NewClient(token string, opts ...rest.Option) *Client {
	base := []rest.Option{
		rest.WithErrorMapper(MapHTTPError),
	}
	return &Client{
		rest: rest.NewClient(providerName, defaultBaseURL, token, append(base, opts...)...),
	}
}

// SetBaseURL sets a custom base URL (for testing or self-hosted GitLab).
func (c *Client) SetBaseURL(url string) {
	c.rest.SetBaseURL(url)
}

// projectID returns the URL-encoded owner/name form GitLab accepts in
// place of a numeric project id.
func projectID(repo domain.Repository) string {
	return url.PathEscape(repo.FullName())
}

// Commit fetches a commit and its per-file diff fragments.
func (c *Client) Commit(ctx context.Context, repo domain.Repository, sha string) (*Commit, error) {
	var data commitResponse
	path := fmt.Sprintf("/projects/%s/repository/commits/%s", projectID(repo), sha)
	if err := c.rest.Get(ctx, path, &data); err != nil {
		return nil, fmt.Errorf("fetch commit %s: %w", sha, err)
	}

	var diffs []diffEntry
	if err := c.rest.Get(ctx, path+"/diff", &diffs); err != nil {
		return nil, fmt.Errorf("fetch diff of %s: %w", sha, err)
	}
	return newCommit(c, repo, data, diffs), nil
}

// MergeRequest fetches a merge request by its project-local iid.
func (c *Client) MergeRequest(ctx context.Context, repo domain.Repository, iid int) (*MergeRequest, error) {
	var data mergeRequestResponse
	path := fmt.Sprintf("/projects/%s/merge_requests/%d", projectID(repo), iid)
	if err := c.rest.Get(ctx, path, &data); err != nil {
		return nil, fmt.Errorf("fetch merge request %d: %w", iid, err)
	}
	return &MergeRequest{client: c, repo: repo, iid: iid, data: data}, nil
}

// DefaultBranch returns the project's designated primary branch.
func (c *Client) DefaultBranch(ctx context.Context, repo domain.Repository) (string, error) {
	var data projectResponse
	if err := c.rest.Get(ctx, "/projects/"+projectID(repo), &data); err != nil {
		return "", fmt.Errorf("fetch project %s: %w", repo.FullName(), err)
	}
	return data.DefaultBranch, nil
}
