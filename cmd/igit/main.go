package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/etcher-be/igit/internal/adapter/cli"
	githubadapter "github.com/etcher-be/igit/internal/adapter/github"
	gitlabadapter "github.com/etcher-be/igit/internal/adapter/gitlab"
	localadapter "github.com/etcher-be/igit/internal/adapter/local"
	"github.com/etcher-be/igit/internal/adapter/rest"
	"github.com/etcher-be/igit/internal/config"
	"github.com/etcher-be/igit/internal/domain"
	"github.com/etcher-be/igit/internal/hosting"
	"github.com/etcher-be/igit/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "igit",
		EnvPrefix:   "IGIT",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	hosts := buildHosts(cfg)
	root := cli.NewRootCommand(cli.Dependencies{
		Hosts:       hosts,
		DefaultHost: defaultHostName(hosts),
		Version:     version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// buildHosts creates a backend per configured token, plus the local
// backend reading the clone at git.repositoryDir. Environment variables
// GITHUB_TOKEN and GITLAB_TOKEN are honored when the config has none.
func buildHosts(cfg config.Config) map[string]cli.HostClient {
	hosts := make(map[string]cli.HostClient)

	repoDir := cfg.Git.RepositoryDir
	if repoDir == "" {
		repoDir = "."
	}
	hosts["local"] = localHost{repoDir: repoDir}

	restOpts := []rest.Option{
		rest.WithTimeout(cfg.HTTP.TimeoutDuration()),
		rest.WithRetryConfig(cfg.HTTP.RetryConfig()),
	}
	if logger := cfg.Logging.RestLogger(); logger != nil {
		restOpts = append(restOpts, rest.WithLogger(logger))
	}

	githubToken := cfg.GitHub.Token
	if githubToken == "" {
		githubToken = os.Getenv("GITHUB_TOKEN")
	}
	if githubToken != "" {
		client := githubadapter.NewClient(githubToken, restOpts...)
		if cfg.GitHub.BaseURL != "" {
			client.SetBaseURL(cfg.GitHub.BaseURL)
		}
		hosts["github"] = githubHost{client: client}
	}

	gitlabToken := cfg.GitLab.Token
	if gitlabToken == "" {
		gitlabToken = os.Getenv("GITLAB_TOKEN")
	}
	if gitlabToken != "" {
		client := gitlabadapter.NewClient(gitlabToken, restOpts...)
		if cfg.GitLab.BaseURL != "" {
			client.SetBaseURL(cfg.GitLab.BaseURL)
		}
		hosts["gitlab"] = gitlabHost{client: client}
	}

	return hosts
}

// defaultHostName picks the host commands use when --host is not given:
// the first configured remote, falling back to the local clone.
func defaultHostName(hosts map[string]cli.HostClient) string {
	for _, name := range []string{"github", "gitlab", "local"} {
		if _, ok := hosts[name]; ok {
			return name
		}
	}
	return "github"
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "igit"))
	}
	return paths
}

// githubHost bridges the concrete GitHub client to the CLI's host interface.
type githubHost struct {
	client *githubadapter.Client
}

func (h githubHost) Commit(ctx context.Context, repo domain.Repository, sha string) (hosting.Commit, error) {
	return h.client.Commit(ctx, repo, sha)
}

func (h githubHost) MergeRequest(ctx context.Context, repo domain.Repository, number int) (hosting.MergeRequest, error) {
	return h.client.PullRequest(ctx, repo, number)
}

// localHost serves commits out of the clone at repoDir. Merge requests
// only exist on a hosting site.
type localHost struct {
	repoDir string
}

func (h localHost) Commit(ctx context.Context, repo domain.Repository, sha string) (hosting.Commit, error) {
	return localadapter.NewEngine(h.repoDir, repo).Commit(ctx, sha)
}

func (h localHost) MergeRequest(ctx context.Context, repo domain.Repository, number int) (hosting.MergeRequest, error) {
	return nil, fmt.Errorf("merge request %d on %s: %w", number, repo.FullName(), localadapter.ErrNoHostingSite)
}

// gitlabHost bridges the concrete GitLab client to the CLI's host interface.
type gitlabHost struct {
	client *gitlabadapter.Client
}

func (h gitlabHost) Commit(ctx context.Context, repo domain.Repository, sha string) (hosting.Commit, error) {
	return h.client.Commit(ctx, repo, sha)
}

func (h gitlabHost) MergeRequest(ctx context.Context, repo domain.Repository, number int) (hosting.MergeRequest, error) {
	return h.client.MergeRequest(ctx, repo, number)
}

// Compile-time interface compliance checks
var _ hosting.Commit = (*githubadapter.Commit)(nil)
var _ hosting.MergeRequest = (*githubadapter.PullRequest)(nil)
var _ hosting.Commit = (*gitlabadapter.Commit)(nil)
var _ hosting.MergeRequest = (*gitlabadapter.MergeRequest)(nil)
var _ hosting.Commit = (*localadapter.Commit)(nil)
var _ cli.HostClient = githubHost{}
var _ cli.HostClient = gitlabHost{}
var _ cli.HostClient = localHost{}
