package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/etcher-be/igit/internal/adapter/cli"
	"github.com/etcher-be/igit/internal/diff"
	"github.com/etcher-be/igit/internal/domain"
	"github.com/etcher-be/igit/internal/hosting"
	"github.com/etcher-be/igit/internal/reference"
)

type commitStub struct {
	sha     string
	message string
	repo    domain.Repository
	stat    diff.Stat
	unified string
	refs    reference.List
}

func (c *commitStub) Sha() string                   { return c.sha }
func (c *commitStub) Message() string               { return c.message }
func (c *commitStub) Parent() string                { return "" }
func (c *commitStub) Repository() domain.Repository { return c.repo }

func (c *commitStub) PatchForFile(path string) (string, error) { return "", errors.New("no patch") }
func (c *commitStub) UnifiedDiff() string                      { return c.unified }
func (c *commitStub) Diffstat() diff.Stat                      { return c.stat }

func (c *commitStub) MentionedIssues() reference.List { return c.refs }
func (c *commitStub) ClosesIssues() reference.List    { return nil }
func (c *commitStub) WillCloseIssues(ctx context.Context) (reference.List, error) {
	return nil, nil
}
func (c *commitStub) WillFixIssues() reference.List     { return nil }
func (c *commitStub) WillResolveIssues() reference.List { return nil }

func (c *commitStub) Comment(ctx context.Context, body string, opts hosting.CommentOptions) (domain.Comment, error) {
	return domain.Comment{}, errors.New("not supported")
}
func (c *commitStub) SetStatus(ctx context.Context, status domain.CommitStatus) error {
	return errors.New("not supported")
}
func (c *commitStub) Statuses(ctx context.Context) ([]domain.CommitStatus, error) {
	return nil, nil
}
func (c *commitStub) CombinedStatus(ctx context.Context) (domain.Status, error) {
	return domain.StatusSuccess, nil
}

type mergeRequestStub struct {
	number int
	state  string
	repo   domain.Repository
	files  []string
	stat   diff.Stat
}

func (m *mergeRequestStub) Number() int                   { return m.number }
func (m *mergeRequestStub) State() string                 { return m.state }
func (m *mergeRequestStub) BaseBranch() string            { return "master" }
func (m *mergeRequestStub) HeadBranch() string            { return "feature" }
func (m *mergeRequestStub) Repository() domain.Repository { return m.repo }

func (m *mergeRequestStub) AffectedFiles(ctx context.Context) ([]string, error) {
	return m.files, nil
}
func (m *mergeRequestStub) Diffstat(ctx context.Context) (diff.Stat, error) { return m.stat, nil }
func (m *mergeRequestStub) UnifiedDiff(ctx context.Context) (string, error) {
	return "", nil
}
func (m *mergeRequestStub) CommitShas(ctx context.Context) ([]string, error) { return nil, nil }
func (m *mergeRequestStub) Close(ctx context.Context) error                  { return nil }
func (m *mergeRequestStub) Reopen(ctx context.Context) error                 { return nil }

type hostStub struct {
	commit     *commitStub
	mr         *mergeRequestStub
	gotRepo    domain.Repository
	gotSha     string
	gotNumber  int
	commitErr  error
	requestErr error
}

func (h *hostStub) Commit(ctx context.Context, repo domain.Repository, sha string) (hosting.Commit, error) {
	h.gotRepo = repo
	h.gotSha = sha
	if h.commitErr != nil {
		return nil, h.commitErr
	}
	return h.commit, nil
}

func (h *hostStub) MergeRequest(ctx context.Context, repo domain.Repository, number int) (hosting.MergeRequest, error) {
	h.gotRepo = repo
	h.gotNumber = number
	if h.requestErr != nil {
		return nil, h.requestErr
	}
	return h.mr, nil
}

type cobraRunner struct {
	root *cobra.Command
}

func newRoot(hosts map[string]cli.HostClient, out io.Writer) *cobraRunner {
	root := cli.NewRootCommand(cli.Dependencies{
		Hosts:   hosts,
		Args:    cli.Arguments{OutWriter: out, ErrWriter: io.Discard},
		Version: "v1.2.3",
	})
	return &cobraRunner{root: root}
}

func (r *cobraRunner) run(args ...string) error {
	r.root.SetArgs(args)
	return r.root.Execute()
}

func TestCommitStatPicksConfiguredHost(t *testing.T) {
	stub := &hostStub{commit: &commitStub{stat: diff.Stat{Additions: 2, Deletions: 1}}}
	var out bytes.Buffer
	runner := newRoot(map[string]cli.HostClient{"github": stub}, &out)

	if err := runner.run("commit", "stat", "gitmate-test-user/test", "abc123"); err != nil {
		t.Fatalf("command execution failed: %v", err)
	}

	if stub.gotRepo.FullName() != "gitmate-test-user/test" {
		t.Fatalf("expected repo to be parsed, got %+v", stub.gotRepo)
	}
	if stub.gotSha != "abc123" {
		t.Fatalf("expected sha abc123, got %s", stub.gotSha)
	}
	if got := out.String(); got != "+2 -1\n" {
		t.Fatalf("expected stat output, got %q", got)
	}
}

func TestCommitDiffPrintsUnifiedDiff(t *testing.T) {
	stub := &hostStub{commit: &commitStub{unified: "--- a/f\n+++ b/f\n@@ -1 +1 @@\n-x\n+y"}}
	var out bytes.Buffer
	runner := newRoot(map[string]cli.HostClient{"github": stub}, &out)

	if err := runner.run("commit", "diff", "o/r", "abc"); err != nil {
		t.Fatalf("command execution failed: %v", err)
	}
	if !strings.Contains(out.String(), "+++ b/f") {
		t.Fatalf("expected diff output, got %q", out.String())
	}
}

func TestHostFlagSelectsBackend(t *testing.T) {
	github := &hostStub{commit: &commitStub{}}
	gitlab := &hostStub{commit: &commitStub{}}
	runner := newRoot(map[string]cli.HostClient{"github": github, "gitlab": gitlab}, io.Discard)

	if err := runner.run("--host", "gitlab", "commit", "stat", "o/r", "abc"); err != nil {
		t.Fatalf("command execution failed: %v", err)
	}
	if gitlab.gotSha != "abc" {
		t.Fatalf("expected gitlab backend to be used")
	}
	if github.gotSha != "" {
		t.Fatalf("expected github backend to stay untouched")
	}
}

func TestDefaultHostHonoredWithoutFlag(t *testing.T) {
	gitlab := &hostStub{commit: &commitStub{}}
	root := cli.NewRootCommand(cli.Dependencies{
		Hosts:       map[string]cli.HostClient{"gitlab": gitlab},
		DefaultHost: "gitlab",
		Args:        cli.Arguments{OutWriter: io.Discard, ErrWriter: io.Discard},
	})
	runner := &cobraRunner{root: root}

	if err := runner.run("commit", "stat", "o/r", "abc"); err != nil {
		t.Fatalf("command execution failed: %v", err)
	}
	if gitlab.gotSha != "abc" {
		t.Fatalf("expected the default host to serve the command")
	}
}

func TestUnknownHostFails(t *testing.T) {
	runner := newRoot(map[string]cli.HostClient{"github": &hostStub{commit: &commitStub{}}}, io.Discard)

	err := runner.run("--host", "bitbucket", "commit", "stat", "o/r", "abc")
	if err == nil || !strings.Contains(err.Error(), "unknown host") {
		t.Fatalf("expected unknown host error, got %v", err)
	}
}

func TestInvalidRepositoryArgFails(t *testing.T) {
	runner := newRoot(map[string]cli.HostClient{"github": &hostStub{commit: &commitStub{}}}, io.Discard)

	if err := runner.run("commit", "stat", "not-a-repo", "abc"); err == nil {
		t.Fatalf("expected error for malformed repository argument")
	}
}

func TestMergeRequestFilesListsPaths(t *testing.T) {
	stub := &hostStub{mr: &mergeRequestStub{number: 7, files: []string{"a.go", "b.go"}}}
	var out bytes.Buffer
	runner := newRoot(map[string]cli.HostClient{"github": stub}, &out)

	if err := runner.run("mr", "files", "o/r", "7"); err != nil {
		t.Fatalf("command execution failed: %v", err)
	}
	if stub.gotNumber != 7 {
		t.Fatalf("expected number 7, got %d", stub.gotNumber)
	}
	if got := out.String(); got != "a.go\nb.go\n" {
		t.Fatalf("expected file list, got %q", got)
	}
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	runner := newRoot(map[string]cli.HostClient{}, &out)

	err := runner.run("--version")
	if !errors.Is(err, cli.ErrVersionRequested) {
		t.Fatalf("expected ErrVersionRequested, got %v", err)
	}
	if !strings.Contains(out.String(), "v1.2.3") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}
