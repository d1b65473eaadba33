// Copyright © 2024 The SLIP authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slip-lang/slip/repl"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "slip [file ...]",
	Short: "SLIP — a small Lisp interpreter",
	Long: `SLIP is a small dialect of Lisp interpreted by a tree walker with its own
mark-and-sweep heap.

Getting started:
  slip                         Start an interactive REPL
  slip file.lisp               Run a Lisp source file
  slip run -e '(+ 1 2)'        Evaluate an expression
  slip test suite_test.lisp    Run deftest declarations and report results

Language overview:
  Data is built from atoms (numbers, strings, symbols, keywords, booleans)
  and cons pairs. Values are defined with (define name value); functions
  with (lambda (args) body) and macros with (macro (args) body). The symbol
  & in a parameter list collects the remaining arguments into a list.
  Errors are ordinary values; (type x) reports "error" for them.

Standard library:
  core.lisp and iteration.lisp load automatically and provide predicates,
  list operations (map, filter, reduce), and loops (dotimes, while, range).
  Additional files load with (import "path").`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			repl.RunRepl("> ")
			return nil
		}
		return runFiles(args)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.slip.yaml)")
	rootCmd.PersistentFlags().String("parser", "rd", `Reader implementation: "rd" or "parsec".`)
	viper.BindPFlag("parser", rootCmd.PersistentFlags().Lookup("parser")) //nolint:errcheck // flag was just defined
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".slip" (without
		// extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".slip")
	}

	viper.SetEnvPrefix("slip")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
