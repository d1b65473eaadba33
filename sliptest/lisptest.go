// Copyright © 2024 The SLIP authors

package sliptest

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/slip-lang/slip/lisp"
	"github.com/slip-lang/slip/parser"
)

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a lisp.LEnv.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the printed representation of the evaluated result
	Output string // output written to Runtime.Stdout during evaluation
}

// TestSuite is a set of named TestSequences.
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated lisp.LEnvs.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		env := lisp.NewEnv(nil)
		var outBuf bytes.Buffer
		err := lisp.GoError(lisp.InitializeUserEnv(env,
			lisp.WithReader(parser.NewReader()),
			lisp.WithStdout(&outBuf),
			lisp.WithStderr(os.Stderr),
		))
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			outBuf.Reset()
			vals, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr), env.Runtime.Heap)
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(vals) != 1 {
				t.Errorf("test %d %q: expr %d: expected one expression (got %d)", i, test.Name, j, len(vals))
				continue
			}
			result := env.Eval(vals[0]).String()
			env.Runtime.CollectIfNeeded(env)
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if outBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, outBuf.String())
			}
		}
	}
}

// RunLibTestSuite is RunTestSuite with the standard library loaded before
// any expression is evaluated.
func RunLibTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		var outBuf bytes.Buffer
		env, err := NewEnv(lisp.WithStdout(&outBuf))
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			outBuf.Reset()
			vals, rerr := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr), env.Runtime.Heap)
			if rerr != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, rerr)
				continue
			}
			if len(vals) != 1 {
				t.Errorf("test %d %q: expr %d: expected one expression (got %d)", i, test.Name, j, len(vals))
				continue
			}
			result := env.Eval(vals[0]).String()
			env.Runtime.CollectIfNeeded(env)
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if outBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, outBuf.String())
			}
		}
	}
}

// Runner runs slip test files as Go subtests.
type Runner struct {
	// Config is applied to the environment of every file run.
	Config []lisp.Config
}

// RunTestFile evaluates the test file at path, reporting each deftest as a
// subtest of t.
func (r *Runner) RunTestFile(t *testing.T, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read test file: %v", err)
	}
	logger := NewLogger(t)
	defer logger.Flush()
	env, err := NewEnv(append([]lisp.Config{lisp.WithStderr(logger)}, r.Config...)...)
	if err != nil {
		t.Fatal(err)
	}
	results := RunFileBytes(env, path, src)
	if results.Err != nil {
		t.Fatalf("load failure: %v", results.Err)
	}
	for _, res := range results.Results {
		res := res
		t.Run(res.Name, func(t *testing.T) {
			if res.Err != nil {
				t.Errorf("test error: %v", res.Err)
			}
			if res.Fail > 0 {
				t.Errorf("%d of %d assertions failed", res.Fail, res.Fail+res.Pass)
			}
		})
	}
}
