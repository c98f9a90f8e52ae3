/*
Copyright © 2026 Yusuke Mori (glrev) <yusuke@glrev.dev>
*/

// report.go implements the three report subcommands. They print exactly
// what the corresponding MCP tool would return, so a shell invocation
// is a faithful dry run of the tool call.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glrev/glrev/internal/log"
	"github.com/glrev/glrev/internal/review"
	"github.com/glrev/glrev/internal/service"
)

func init() {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "failed-jobs",
			Short: "Print console output of failed jobs in the current MR's pipeline",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return runReport(c, "cli:failed-jobs", (*review.Reporter).FailedJobsReport)
			},
		},
		&cobra.Command{
			Use:   "review-changes",
			Short: "Print the diff between the current MR's base commit and the working tree",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return runReport(c, "cli:review-changes", (*review.Reporter).ChangesReport)
			},
		},
		&cobra.Command{
			Use:   "review-comments",
			Short: "Print unresolved review comments on the current MR",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return runReport(c, "cli:review-comments", (*review.Reporter).CommentsReport)
			},
		},
	)
}

// runReport builds a fresh reporter and prints one report.
func runReport(c *cobra.Command, source string,
	run func(*review.Reporter, context.Context) (string, error)) error {

	ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout())
	defer cancel()

	ev := log.Event(source, "report")

	reporter, err := service.New(ctx, cfg)
	if err != nil {
		ev.Write(err)
		return err
	}

	text, err := run(reporter, ctx)
	ev.Write(err)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, text)
	return nil
}
