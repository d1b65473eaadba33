// Copyright © 2024 The SLIP authors

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/slip-lang/slip/repl"
)

// replCmd represents the repl command.
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive interpreter session",
	Long: `Start an interactive interpreter session.  One line is read per prompt
and each top-level result is printed.  Enter (exit) to quit.`,
	Run: func(cmd *cobra.Command, args []string) {
		repl.RunRepl("> ")
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
