/*
Copyright © 2026 Yusuke Mori (glrev) <yusuke@glrev.dev>
*/

// flags.go defines global CLI flags and shared output state.

package cmd

import (
	"io"
	"os"
)

var verbose bool

// out is the output writer for commands. Defaults to os.Stdout.
// Tests replace this to capture output.
var out io.Writer = os.Stdout

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
