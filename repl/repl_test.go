// Copyright © 2024 The SLIP authors

package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slip-lang/slip/diagnostic"
	"github.com/slip-lang/slip/lisp"
	"github.com/slip-lang/slip/lisp/lisplib"
	"github.com/slip-lang/slip/parser"
)

func newTestEnv(t *testing.T, stdout, stderr *bytes.Buffer) *lisp.LEnv {
	t.Helper()
	env := lisp.NewEnv(nil)
	lerr := lisp.InitializeUserEnv(env,
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(stdout),
		lisp.WithStderr(stderr),
	)
	require.NoError(t, lisp.GoError(lerr))
	require.NoError(t, lisp.GoError(lisplib.LoadLibrary(env)))
	return env
}

func TestEvalLinePrintsResults(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := newTestEnv(t, &stdout, &stderr)
	renderer := &diagnostic.Renderer{}

	EvalLine(env, renderer, "(+ 1 2)")
	assert.Equal(t, "3\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestEvalLineSkipsNilResults(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := newTestEnv(t, &stdout, &stderr)
	renderer := &diagnostic.Renderer{}

	EvalLine(env, renderer, "(define x 5)")
	assert.Empty(t, stdout.String())

	EvalLine(env, renderer, "x")
	assert.Equal(t, "5\n", stdout.String())
}

func TestEvalLineSharesEnvironmentAcrossLines(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := newTestEnv(t, &stdout, &stderr)
	renderer := &diagnostic.Renderer{}

	EvalLine(env, renderer, "(define double (lambda (a) (+ a a)))")
	EvalLine(env, renderer, "(double 10)")
	assert.Equal(t, "20\n", stdout.String())
}

func TestEvalLineRendersErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := newTestEnv(t, &stdout, &stderr)
	renderer := &diagnostic.Renderer{}

	EvalLine(env, renderer, "(no-such-fn 1)")
	// Errors go to the error sink; stdout still receives one newline.
	assert.Equal(t, "\n", stdout.String())
	assert.Contains(t, stderr.String(), "name error")
}

func TestEvalLineStopsBatchAtError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := newTestEnv(t, &stdout, &stderr)
	renderer := &diagnostic.Renderer{}

	EvalLine(env, renderer, "(define x 1) (no-such-fn) (define x 99)")
	EvalLine(env, renderer, "x")
	assert.Equal(t, "\n1\n", stdout.String())
	assert.Contains(t, stderr.String(), "name error")
}

func TestEvalLineMultipleForms(t *testing.T) {
	var stdout, stderr bytes.Buffer
	env := newTestEnv(t, &stdout, &stderr)
	renderer := &diagnostic.Renderer{}

	EvalLine(env, renderer, "1 2 3")
	assert.Equal(t, "1\n2\n3\n", stdout.String())
}
