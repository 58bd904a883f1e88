// Package github adapts the GitHub REST API to the hosting interfaces.
// GitHub delivers per-file patches as bare hunk sequences without file
// headers; the unified-diff builder synthesizes them.
package github

import (
	"context"
	"fmt"

	"github.com/etcher-be/igit/internal/adapter/rest"
	"github.com/etcher-be/igit/internal/domain"
)

const defaultBaseURL = "https://api.github.com"

// Client is an HTTP client for the GitHub REST API.
type Client struct {
	rest *rest.Client
}

// NewClient creates a GitHub API client with the given token.
// The token should be a personal access token or GITHUB_TOKEN from Actions.
func NewClient(token string, opts ...rest.Option) *Client {
	base := []rest.Option{
		rest.WithHeader("Accept", "application/vnd.github+json"),
		rest.WithHeader("X-GitHub-Api-Version", "2022-11-28"),
		rest.WithErrorMapper(MapHTTPError),
	}
	return &Client{
		rest: rest.NewClient(providerName, defaultBaseURL, token, append(base, opts...)...),
	}
}

// SetBaseURL sets a custom base URL (for testing or GitHub Enterprise).
func (c *Client) SetBaseURL(url string) {
	c.rest.SetBaseURL(url)
}

// Commit fetches a commit with its message and per-file patch fragments.
func (c *Client) Commit(ctx context.Context, repo domain.Repository, sha string) (*Commit, error) {
	var data commitResponse
	path := fmt.Sprintf("/repos/%s/commits/%s", repo.FullName(), sha)
	if err := c.rest.Get(ctx, path, &data); err != nil {
		return nil, fmt.Errorf("fetch commit %s: %w", sha, err)
	}
	return newCommit(c, repo, data), nil
}

// PullRequest fetches a pull request by number.
func (c *Client) PullRequest(ctx context.Context, repo domain.Repository, number int) (*PullRequest, error) {
	var data pullRequestResponse
	path := fmt.Sprintf("/repos/%s/pulls/%d", repo.FullName(), number)
	if err := c.rest.Get(ctx, path, &data); err != nil {
		return nil, fmt.Errorf("fetch pull request %d: %w", number, err)
	}
	return &PullRequest{client: c, repo: repo, number: number, data: data}, nil
}

// DefaultBranch returns the repository's designated primary branch.
func (c *Client) DefaultBranch(ctx context.Context, repo domain.Repository) (string, error) {
	var data repositoryResponse
	if err := c.rest.Get(ctx, "/repos/"+repo.FullName(), &data); err != nil {
		return "", fmt.Errorf("fetch repository %s: %w", repo.FullName(), err)
	}
	return data.DefaultBranch, nil
}
