// Copyright © 2024 The SLIP authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slip-lang/slip/diagnostic"
	"github.com/slip-lang/slip/lisp"
	"github.com/slip-lang/slip/lisp/lisplib"
	"github.com/slip-lang/slip/parser"
	"github.com/slip-lang/slip/parser/parsecparser"
	"github.com/slip-lang/slip/sliptest"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run [file ...]",
	Short: "Run lisp code",
	Long: `Run lisp code supplied via the command line or files.  Files whose
basename ends in _test.lisp execute in test mode, which counts deftest
results and prints a summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runExpression {
			return runExpressions(args)
		}
		return runFiles(args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Evaluate expressions given as command line arguments")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print the value of evaluated expressions")
}

// newReader selects the reader implementation from configuration.
func newReader() (lisp.Reader, error) {
	switch viper.GetString("parser") {
	case "", "rd":
		return parser.NewReader(), nil
	case "parsec":
		return parsecparser.NewReader(), nil
	default:
		return nil, fmt.Errorf("unknown parser implementation: %q", viper.GetString("parser"))
	}
}

func newEnv() (*lisp.LEnv, error) {
	r, err := newReader()
	if err != nil {
		return nil, err
	}
	env := lisp.NewEnv(nil)
	lerr := lisp.InitializeUserEnv(env,
		lisp.WithReader(r),
		lisp.WithLibrary(&lisp.RelativeFileSystemLibrary{}),
	)
	if err := lisp.GoError(lerr); err != nil {
		return nil, err
	}
	if err := lisp.GoError(lisplib.LoadLibrary(env)); err != nil {
		return nil, err
	}
	return env, nil
}

func runFiles(paths []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	renderer := &diagnostic.Renderer{}
	failed := false
	for _, path := range paths {
		if sliptest.IsTestFile(path) {
			results, err := runTestFile(env, path)
			if err != nil {
				return err
			}
			if results.Failed() {
				failed = true
			}
			continue
		}
		res := env.LoadFile(path)
		if res.Type == lisp.LError {
			renderer.Render(os.Stderr, lisp.GoError(res)) //nolint:errcheck // best-effort error display
			os.Exit(1)
		}
	}
	if failed {
		os.Exit(1)
	}
	return nil
}

func runExpressions(exprs []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	renderer := &diagnostic.Renderer{}
	source := strings.Join(exprs, "\n")
	vals, rerr := env.Runtime.Reader.Read("command-line", strings.NewReader(source), env.Runtime.Heap)
	if rerr != nil {
		return rerr
	}
	for _, expr := range vals {
		v := env.Eval(expr)
		env.Runtime.CollectIfNeeded(env)
		if v.Type == lisp.LError {
			renderer.Render(os.Stderr, lisp.GoError(v)) //nolint:errcheck // best-effort error display
			os.Exit(1)
		}
		if runPrint && !v.IsNil() {
			fmt.Println(v)
		}
	}
	return nil
}
