package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/etcher-be/igit/internal/hosting"
	"github.com/etcher-be/igit/internal/reference"
)

var titleCaser = cases.Title(language.English)

// sectionHeader prints a title-cased section name, underlined when the
// writer is a terminal so sections stand out in interactive use.
func sectionHeader(w io.Writer, name string) {
	title := titleCaser.String(name)
	fmt.Fprintln(w, title)
	if isTerminal(w) {
		fmt.Fprintln(w, strings.Repeat("-", len(title)))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderCommit(w io.Writer, commit hosting.Commit) error {
	fmt.Fprintf(w, "commit  %s\n", commit.Sha())
	if parent := commit.Parent(); parent != "" {
		fmt.Fprintf(w, "parent  %s\n", parent)
	}
	fmt.Fprintf(w, "repo    %s\n", commit.Repository().FullName())
	s := commit.Diffstat()
	fmt.Fprintf(w, "stat    +%d -%d\n\n", s.Additions, s.Deletions)
	fmt.Fprintln(w, strings.TrimRight(commit.Message(), "\n"))
	return nil
}

func renderReferences(ctx context.Context, w io.Writer, commit hosting.Commit) error {
	willClose, err := commit.WillCloseIssues(ctx)
	if err != nil {
		return err
	}

	sections := []struct {
		name string
		refs reference.List
	}{
		{"mentioned", commit.MentionedIssues()},
		{"closes", commit.ClosesIssues()},
		{"will close", willClose},
		{"will fix", commit.WillFixIssues()},
		{"will resolve", commit.WillResolveIssues()},
	}

	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		sectionHeader(w, section.name)
		if len(section.refs) == 0 {
			fmt.Fprintln(w, "(none)")
			continue
		}
		for _, ref := range section.refs {
			fmt.Fprintf(w, "%s#%d\n", ref.Repo.FullName(), ref.Number)
		}
	}
	return nil
}

func renderStatuses(ctx context.Context, w io.Writer, commit hosting.Commit) error {
	statuses, err := commit.Statuses(ctx)
	if err != nil {
		return err
	}
	combined, err := commit.CombinedStatus(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "combined: %s\n", combined)
	for _, st := range statuses {
		fmt.Fprintf(w, "  %-10s %s", st.State, st.Context)
		if st.Description != "" {
			fmt.Fprintf(w, " (%s)", st.Description)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func renderMergeRequest(ctx context.Context, w io.Writer, mr hosting.MergeRequest) error {
	fmt.Fprintf(w, "mr      %s!%d\n", mr.Repository().FullName(), mr.Number())
	fmt.Fprintf(w, "state   %s\n", mr.State())
	fmt.Fprintf(w, "merges  %s into %s\n", mr.HeadBranch(), mr.BaseBranch())

	s, err := mr.Diffstat(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "stat    +%d -%d\n", s.Additions, s.Deletions)

	paths, err := mr.AffectedFiles(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	sectionHeader(w, "files")
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
	return nil
}
