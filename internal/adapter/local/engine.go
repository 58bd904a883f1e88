// Package local reads commits out of a local clone with go-git, offering
// the same derived surface as the hosting backends: per-file patch
// fragments, unified diff, diffstat and commit message references. It is
// read-only; comments and statuses need a hosting site.
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	formatdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/etcher-be/igit/internal/diff"
	"github.com/etcher-be/igit/internal/domain"
	"github.com/etcher-be/igit/internal/hosting"
	"github.com/etcher-be/igit/internal/reference"
)

// ErrNoHostingSite is returned for operations a bare clone cannot serve:
// comments, CI statuses and merge requests all live on a hosting site.
var ErrNoHostingSite = errors.New("operation requires a hosting site")

// Engine reads commits from the repository at repoDir. The repository
// identity scopes bare #N references in commit messages; it may be zero
// for clones with no hosted counterpart.
type Engine struct {
	repoDir string
	repo    domain.Repository
}

// NewEngine constructs an engine for the provided repository directory.
func NewEngine(repoDir string, repo domain.Repository) *Engine {
	return &Engine{repoDir: repoDir, repo: repo}
}

// Commit resolves ref (a sha, branch or tag) and loads the commit with its
// per-file patch fragments.
func (e *Engine) Commit(ctx context.Context, ref string) (*Commit, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve ref %s: %w", ref, err)
	}

	files, err := filePatches(ctx, commit)
	if err != nil {
		return nil, err
	}

	return &Commit{
		gitRepo: repo,
		commit:  commit,
		repo:    e.repo,
		files:   files,
		refs:    reference.Parse(commit.Message, e.repo),
	}, nil
}

// Commit is one commit loaded from the local clone.
type Commit struct {
	gitRepo *goGit.Repository
	commit  *object.Commit
	repo    domain.Repository
	files   []diff.FileChange
	refs    reference.List
}

// Sha returns the full commit hash.
func (c *Commit) Sha() string {
	return c.commit.Hash.String()
}

// Message returns the commit message.
func (c *Commit) Message() string {
	return c.commit.Message
}

// Parent returns the sha of the first parent, or "" for a root commit.
func (c *Commit) Parent() string {
	if c.commit.NumParents() == 0 {
		return ""
	}
	return c.commit.ParentHashes[0].String()
}

// Repository returns the repository identity the engine was created with.
func (c *Commit) Repository() domain.Repository {
	return c.repo
}

// PatchForFile returns the patch fragment for one changed file.
func (c *Commit) PatchForFile(path string) (string, error) {
	for _, f := range c.files {
		if f.Path == path {
			return f.Patch, nil
		}
	}
	return "", fmt.Errorf("file %s not changed in commit %s", path, c.Sha())
}

// AffectedFiles returns the paths touched by the commit.
func (c *Commit) AffectedFiles() []string {
	paths := make([]string, len(c.files))
	for i, f := range c.files {
		paths[i] = f.Path
	}
	return paths
}

// UnifiedDiff returns the full multi-file diff of the commit.
func (c *Commit) UnifiedDiff() string {
	return diff.BuildAll(c.files)
}

// Diffstat returns total additions and deletions across the commit.
func (c *Commit) Diffstat() diff.Stat {
	patches := make([]string, len(c.files))
	for i, f := range c.files {
		patches[i] = f.Patch
	}
	return diff.Aggregate(patches...)
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
	onDefault, err := c.onDefaultBranch()
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

// Comment fails; a local clone has nowhere to record comments.
func (c *Commit) Comment(ctx context.Context, body string, opts hosting.CommentOptions) (domain.Comment, error) {
	return domain.Comment{}, fmt.Errorf("comment on commit %s: %w", c.Sha(), ErrNoHostingSite)
}

// SetStatus fails; a local clone records no CI statuses.
func (c *Commit) SetStatus(ctx context.Context, status domain.CommitStatus) error {
	return fmt.Errorf("set status on commit %s: %w", c.Sha(), ErrNoHostingSite)
}

// Statuses fails; a local clone records no CI statuses.
func (c *Commit) Statuses(ctx context.Context) ([]domain.CommitStatus, error) {
	return nil, fmt.Errorf("statuses of commit %s: %w", c.Sha(), ErrNoHostingSite)
}

// CombinedStatus fails; a local clone records no CI statuses.
func (c *Commit) CombinedStatus(ctx context.Context) (domain.Status, error) {
	return domain.StatusPending, fmt.Errorf("combined status of commit %s: %w", c.Sha(), ErrNoHostingSite)
}

// onDefaultBranch reports whether the commit is reachable from the head of
// the default branch: main or master when present, HEAD otherwise.
func (c *Commit) onDefaultBranch() (bool, error) {
	head, err := defaultBranchHead(c.gitRepo)
	if err != nil {
		return false, err
	}
	if head.Hash == c.commit.Hash {
		return true, nil
	}
	return c.commit.IsAncestor(head)
}

func defaultBranchHead(repo *goGit.Repository) (*object.Commit, error) {
	for _, name := range []string{"refs/heads/main", "refs/heads/master"} {
		ref, err := repo.Reference(plumbing.ReferenceName(name), true)
		if err != nil {
			continue
		}
		return repo.CommitObject(ref.Hash())
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	return repo.CommitObject(head.Hash())
}

func resolveCommit(repo *goGit.Repository, ref string) (*object.Commit, error) {
	candidates := []string{
		ref,
		fmt.Sprintf("refs/heads/%s", ref),
		fmt.Sprintf("refs/remotes/origin/%s", ref),
	}

	var lastErr error
	for _, candidate := range candidates {
		name := plumbing.Revision(candidate)
		hash, err := repo.ResolveRevision(name)
		if err != nil {
			lastErr = err
			continue
		}
		return repo.CommitObject(*hash)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to resolve ref %s", ref)
}

// filePatches renders one fragment per changed file, diffing against the
// first parent or against the empty tree for a root commit.
func filePatches(ctx context.Context, commit *object.Commit) ([]diff.FileChange, error) {
	toTree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("commit tree: %w", err)
	}

	var fromTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("parent commit: %w", err)
		}
		fromTree, err = parent.Tree()
		if err != nil {
			return nil, fmt.Errorf("parent tree: %w", err)
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute patch: %w", err)
	}

	files := make([]diff.FileChange, 0, len(patch.FilePatches()))
	for _, fp := range patch.FilePatches() {
		fragment, err := encodeFilePatch(fp)
		if err != nil {
			return nil, fmt.Errorf("encode patch: %w", err)
		}
		files = append(files, diff.FileChange{
			Path:  filePatchPath(fp),
			Patch: fragment,
		})
	}
	return files, nil
}

// filePatchPath returns the new path of a file patch, or the old path for
// deletions.
func filePatchPath(fp formatdiff.FilePatch) string {
	from, to := fp.Files()
	if to != nil {
		return to.Path()
	}
	if from != nil {
		return from.Path()
	}
	return ""
}

// encodeFilePatch renders a single file patch and trims the leading
// diff --git preamble so the fragment starts at the --- a/ header, the
// form the hosting backends deliver.
func encodeFilePatch(fp formatdiff.FilePatch) (string, error) {
	var buf strings.Builder
	encoder := formatdiff.NewUnifiedEncoder(&buf, formatdiff.DefaultContextLines)
	if err := encoder.Encode(singlePatch{fp: fp}); err != nil {
		return "", err
	}
	text := buf.String()
	if idx := strings.Index(text, "\n--- "); idx >= 0 {
		return strings.TrimRight(text[idx+1:], "\n"), nil
	}
	return strings.TrimRight(text, "\n"), nil
}

type singlePatch struct {
	fp formatdiff.FilePatch
}

func (s singlePatch) FilePatches() []formatdiff.FilePatch {
	return []formatdiff.FilePatch{s.fp}
}

func (s singlePatch) Message() string {
	return ""
}
