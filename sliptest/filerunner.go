// Copyright © 2024 The SLIP authors

// Package sliptest runs slip test files and expression tables against fresh
// interpreter environments.
package sliptest

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/slip-lang/slip/lisp"
	"github.com/slip-lang/slip/lisp/lisplib"
	"github.com/slip-lang/slip/parser"
)

// TestFileSuffix marks source files that execute in test mode.
const TestFileSuffix = "_test.lisp"

// IsTestFile reports whether path names a test-mode source file.
func IsTestFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), TestFileSuffix)
}

// DeftestSymbol is the head symbol that marks a test declaration in a test
// file.  The declaration's body results are counted: true is a pass, false
// is a failure, anything else is ignored.
const DeftestSymbol = "deftest"

// TestResult summarises one deftest declaration.
type TestResult struct {
	Name string
	Pass int
	Fail int
	Err  error
}

// Failed reports whether the test produced a failure or an error.
func (r *TestResult) Failed() bool {
	return r.Fail > 0 || r.Err != nil
}

// FileResults summarises a test-mode run of one source file.
type FileResults struct {
	File    string
	Results []*TestResult
	Err     error
}

// Failed reports whether any test in the file failed.
func (r *FileResults) Failed() bool {
	if r.Err != nil {
		return true
	}
	for _, t := range r.Results {
		if t.Failed() {
			return true
		}
	}
	return false
}

// Summary returns a one-line human readable summary for the file.
func (r *FileResults) Summary() string {
	pass, fail := 0, 0
	for _, t := range r.Results {
		pass += t.Pass
		fail += t.Fail
		if t.Err != nil {
			fail++
		}
	}
	return fmt.Sprintf("%s: %d tests, %d passed, %d failed", r.File, len(r.Results), pass, fail)
}

// NewEnv returns a root environment with the default reader, a filesystem
// source library, and the standard library loaded.
func NewEnv(config ...lisp.Config) (*lisp.LEnv, error) {
	env := lisp.NewEnv(nil)
	opts := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithLibrary(&lisp.RelativeFileSystemLibrary{}),
	}
	opts = append(opts, config...)
	err := lisp.GoError(lisp.InitializeUserEnv(env, opts...))
	if err != nil {
		return nil, fmt.Errorf("environment initialization failure: %w", err)
	}
	err = lisp.GoError(lisplib.LoadLibrary(env))
	if err != nil {
		return nil, fmt.Errorf("stdlib initialization failure: %w", err)
	}
	return env, nil
}

// RunFile evaluates the test file read from r in env.  Top-level deftest
// forms contribute a TestResult each; other top-level forms run for their
// side effects.  An error value outside a deftest aborts the batch, the way
// ordinary source execution does.
func RunFile(env *lisp.LEnv, name string, r io.Reader) *FileResults {
	results := &FileResults{File: name}
	rt := env.Runtime
	exprs, err := rt.Reader.Read(name, r, rt.Heap)
	if err != nil {
		results.Err = err
		return results
	}
	for _, expr := range exprs {
		if isDeftest(expr) {
			results.Results = append(results.Results, runDeftest(env, expr))
		} else {
			v := env.Eval(expr)
			if v.Type == lisp.LError {
				results.Err = lisp.GoError(v)
				return results
			}
		}
		rt.CollectIfNeeded(env)
	}
	return results
}

// RunFileBytes is RunFile reading from an in-memory source.
func RunFileBytes(env *lisp.LEnv, name string, src []byte) *FileResults {
	return RunFile(env, name, bytes.NewReader(src))
}

func isDeftest(expr *lisp.LVal) bool {
	return expr.Type == lisp.LCons &&
		expr.Car.Type == lisp.LSymbol &&
		expr.Car.Str == DeftestSymbol
}

func runDeftest(env *lisp.LEnv, expr *lisp.LVal) *TestResult {
	result := &TestResult{Name: deftestName(expr)}
	v := env.Eval(expr)
	if v.Type == lisp.LError {
		result.Err = lisp.GoError(v)
		return result
	}
	for cell := v; cell.Type == lisp.LCons; cell = cell.Cdr {
		if cell.Car.Type != lisp.LBool {
			continue
		}
		if cell.Car.Bool {
			result.Pass++
		} else {
			result.Fail++
		}
	}
	return result
}

func deftestName(expr *lisp.LVal) string {
	if expr.Cdr.Type != lisp.LCons {
		return "<unnamed>"
	}
	name := expr.Cdr.Car
	switch name.Type {
	case lisp.LSymbol, lisp.LString:
		return name.Str
	}
	return name.String()
}
