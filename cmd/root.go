/*
Copyright © 2026 Yusuke Mori (glrev) <yusuke@glrev.dev>
*/

// root.go defines the root command and CLI execution entry point.
//
// Running glrev without a subcommand starts the MCP server on stdio;
// the subcommands are a diagnostic surface over the same operations so
// each report can be inspected from a shell without an MCP client.
//
// Design: configuration is loaded in PersistentPreRunE but validated
// lazily by the commands that need it. This keeps `glrev version` and
// `glrev --help` working with no environment set, while any real
// operation fails with a message naming the missing setting.

package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	zl "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/glrev/glrev/internal/config"
	"github.com/glrev/glrev/internal/log"
	"github.com/glrev/glrev/internal/mcp"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "glrev",
	Short: "GitLab merge-request review context for AI assistants",
	Long: `glrev serves three read-only review operations - failed CI job logs,
merge-request diffs against the local working tree, and unresolved review
comments - as MCP tools scoped to the merge request of the current branch.

Without a subcommand it starts the MCP server on stdio. The subcommands
print the same reports directly for diagnostics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mcp.Serve(cfg)
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}

		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c

		if cfg.RepoPath != "" {
			log.SetProject(cfg.RepoPath)
		}
		return nil
	},
}

// Execute runs the root command and handles process lifecycle.
// Opens audit logging, executes the command, and exits 1 on error.
func Execute() {
	zl.Logger = zl.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	if err := rootCmd.Execute(); err != nil {
		log.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
