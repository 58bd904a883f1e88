// Package cli wires the hosting backends into the igit command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/etcher-be/igit/internal/domain"
	"github.com/etcher-be/igit/internal/hosting"
)

// ErrVersionRequested indicates the user requested the CLI version and no
// further work should be done.
var ErrVersionRequested = errors.New("version requested")

// HostClient is one hosting backend the CLI can talk to.
type HostClient interface {
	Commit(ctx context.Context, repo domain.Repository, sha string) (hosting.Commit, error)
	MergeRequest(ctx context.Context, repo domain.Repository, number int) (hosting.MergeRequest, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Hosts       map[string]HostClient
	DefaultHost string
	Args        Arguments
	Version     string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "igit",
		Short: "Host-agnostic access to commits and merge requests",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	defaultHost := deps.DefaultHost
	if defaultHost == "" {
		defaultHost = "github"
	}
	var host string
	root.PersistentFlags().StringVar(&host, "host", defaultHost, "Hosting site: "+strings.Join(hostNames(deps.Hosts), ", "))

	pickHost := func() (HostClient, error) {
		client, ok := deps.Hosts[host]
		if !ok {
			return nil, fmt.Errorf("unknown host %q; configured hosts: %s", host, strings.Join(hostNames(deps.Hosts), ", "))
		}
		return client, nil
	}

	root.AddCommand(commitCommand(pickHost))
	root.AddCommand(mergeRequestCommand(pickHost))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func hostNames(hosts map[string]HostClient) []string {
	names := make([]string, 0, len(hosts))
	for name := range hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseRepoArg(arg string) (domain.Repository, error) {
	repo, err := domain.ParseFullName(arg)
	if err != nil {
		return domain.Repository{}, fmt.Errorf("repository argument: %w", err)
	}
	return repo, nil
}

func commitCommand(pickHost func() (HostClient, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Inspect a commit on a hosting site",
	}

	fetch := func(cmd *cobra.Command, args []string) (hosting.Commit, error) {
		client, err := pickHost()
		if err != nil {
			return nil, err
		}
		repo, err := parseRepoArg(args[0])
		if err != nil {
			return nil, err
		}
		return client.Commit(cmd.Context(), repo, args[1])
	}

	show := &cobra.Command{
		Use:   "show OWNER/REPO SHA",
		Short: "Show commit metadata and referenced issues",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			commit, err := fetch(cmd, args)
			if err != nil {
				return err
			}
			return renderCommit(cmd.OutOrStdout(), commit)
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff OWNER/REPO SHA",
		Short: "Print the unified diff of a commit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			commit, err := fetch(cmd, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), commit.UnifiedDiff())
			return err
		},
	}

	stat := &cobra.Command{
		Use:   "stat OWNER/REPO SHA",
		Short: "Print additions and deletions of a commit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			commit, err := fetch(cmd, args)
			if err != nil {
				return err
			}
			s := commit.Diffstat()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "+%d -%d\n", s.Additions, s.Deletions)
			return err
		},
	}

	refs := &cobra.Command{
		Use:   "refs OWNER/REPO SHA",
		Short: "Print the issues the commit message references",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			commit, err := fetch(cmd, args)
			if err != nil {
				return err
			}
			return renderReferences(cmd.Context(), cmd.OutOrStdout(), commit)
		},
	}

	status := &cobra.Command{
		Use:   "status OWNER/REPO SHA",
		Short: "Print the combined CI status of a commit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			commit, err := fetch(cmd, args)
			if err != nil {
				return err
			}
			return renderStatuses(cmd.Context(), cmd.OutOrStdout(), commit)
		},
	}

	cmd.AddCommand(show, diffCmd, stat, refs, status)
	return cmd
}

func mergeRequestCommand(pickHost func() (HostClient, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mr",
		Aliases: []string{"pr"},
		Short:   "Inspect a merge request on a hosting site",
	}

	fetch := func(cmd *cobra.Command, args []string) (hosting.MergeRequest, error) {
		client, err := pickHost()
		if err != nil {
			return nil, err
		}
		repo, err := parseRepoArg(args[0])
		if err != nil {
			return nil, err
		}
		var number int
		if _, err := fmt.Sscanf(args[1], "%d", &number); err != nil || number <= 0 {
			return nil, fmt.Errorf("invalid merge request number %q", args[1])
		}
		return client.MergeRequest(cmd.Context(), repo, number)
	}

	show := &cobra.Command{
		Use:   "show OWNER/REPO NUMBER",
		Short: "Show merge request metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mr, err := fetch(cmd, args)
			if err != nil {
				return err
			}
			return renderMergeRequest(cmd.Context(), cmd.OutOrStdout(), mr)
		},
	}

	files := &cobra.Command{
		Use:   "files OWNER/REPO NUMBER",
		Short: "List the files a merge request touches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mr, err := fetch(cmd, args)
			if err != nil {
				return err
			}
			paths, err := mr.AffectedFiles(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range paths {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
					return err
				}
			}
			return nil
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff OWNER/REPO NUMBER",
		Short: "Print the unified diff of a merge request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mr, err := fetch(cmd, args)
			if err != nil {
				return err
			}
			unified, err := mr.UnifiedDiff(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), unified)
			return err
		},
	}

	stat := &cobra.Command{
		Use:   "stat OWNER/REPO NUMBER",
		Short: "Print additions and deletions of a merge request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mr, err := fetch(cmd, args)
			if err != nil {
				return err
			}
			s, err := mr.Diffstat(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "+%d -%d\n", s.Additions, s.Deletions)
			return err
		},
	}

	cmd.AddCommand(show, files, diffCmd, stat)
	return cmd
}
