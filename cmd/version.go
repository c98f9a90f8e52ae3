/*
Copyright © 2026 Yusuke Mori (glrev) <yusuke@glrev.dev>
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glrev/glrev/internal/mcp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the glrev version",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		fmt.Fprintln(out, "glrev "+mcp.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
