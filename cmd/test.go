// Copyright © 2024 The SLIP authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slip-lang/slip/lisp"
	"github.com/slip-lang/slip/sliptest"
)

// testCmd represents the test command.
var testCmd = &cobra.Command{
	Use:   "test [file ...]",
	Short: "Run lisp test files",
	Long: `Run each file in test mode regardless of its name.  Test mode counts the
boolean results of every deftest declaration and prints a per-file summary.
The exit status is non-zero when any test fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv()
		if err != nil {
			return err
		}
		failed := false
		for _, path := range args {
			results, err := runTestFile(env, path)
			if err != nil {
				return err
			}
			if results.Failed() {
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTestFile(env *lisp.LEnv, path string) (*sliptest.FileResults, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read test file: %w", err)
	}
	results := sliptest.RunFileBytes(env, path, src)
	for _, res := range results.Results {
		status := "ok"
		switch {
		case res.Err != nil:
			status = fmt.Sprintf("error: %v", res.Err)
		case res.Fail > 0:
			status = "FAIL"
		}
		fmt.Printf("  %-30s %s\n", res.Name, status)
	}
	if results.Err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, results.Err)
	}
	fmt.Println(results.Summary())
	return results, nil
}
