/*
Copyright © 2026 Yusuke Mori (glrev) <yusuke@glrev.dev>
*/

// branch.go implements "glrev branch": print the current local branch.
// Only the repository setting is required; no GitLab access happens.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glrev/glrev/internal/config"
	"github.com/glrev/glrev/internal/gitrepo"
	"github.com/glrev/glrev/internal/log"
)

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Print the current local branch name",
	Args:  cobra.NoArgs,
	RunE:  runBranch,
}

func init() {
	rootCmd.AddCommand(branchCmd)
}

func runBranch(c *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout())
	defer cancel()

	ev := log.Event("cli:branch", "resolve")

	branch, err := currentBranch(ctx)
	ev.Branch(branch).Write(err)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, branch)
	return nil
}

// currentBranch opens the configured repository and reads its branch.
func currentBranch(ctx context.Context) (string, error) {
	if cfg.RepoPath == "" {
		return "", fmt.Errorf("%s is not set (path to the local git repository)", config.EnvRepoPath)
	}
	repo, err := gitrepo.Open(ctx, cfg.RepoPath)
	if err != nil {
		return "", err
	}
	return repo.CurrentBranch(ctx)
}
