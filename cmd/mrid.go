/*
Copyright © 2026 Yusuke Mori (glrev) <yusuke@glrev.dev>
*/

// mrid.go implements "glrev mr-id": resolve and print the IID of the
// merge request associated with the current branch.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glrev/glrev/internal/log"
	"github.com/glrev/glrev/internal/review"
	"github.com/glrev/glrev/internal/service"
)

var mrIDCmd = &cobra.Command{
	Use:   "mr-id",
	Short: "Print the merge request IID for the current branch",
	Args:  cobra.NoArgs,
	RunE:  runMRID,
}

func init() {
	rootCmd.AddCommand(mrIDCmd)
}

func runMRID(c *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(c.Context(), cfg.Timeout())
	defer cancel()

	ev := log.Event("cli:mr-id", "resolve")

	reporter, err := service.New(ctx, cfg)
	if err != nil {
		ev.Write(err)
		return err
	}

	mr, err := reporter.CurrentMergeRequest(ctx)
	if errors.Is(err, review.ErrNoMergeRequest) {
		ev.Write(nil)
		fmt.Fprintln(out, review.MsgNoMergeRequest)
		return nil
	}
	if err != nil {
		ev.Write(err)
		return err
	}

	ev.Branch(mr.SourceBranch).MR(mr.IID).Write(nil)
	fmt.Fprintln(out, mr.IID)
	return nil
}
