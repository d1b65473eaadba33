// Copyright © 2024 The SLIP authors

package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/slip-lang/slip/diagnostic"
	"github.com/slip-lang/slip/lisp"
	"github.com/slip-lang/slip/lisp/lisplib"
	"github.com/slip-lang/slip/parser"
)

// ExitForm is the line that terminates the read loop.
const ExitForm = "(exit)"

type config struct {
	stdin  io.ReadCloser
	stdout io.Writer
	stderr io.Writer
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout allows overriding the result output of the REPL.
func WithStdout(stdout io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithStderr allows overriding the error output of the REPL.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// RunRepl runs a repl in a vanilla slip environment.
func RunRepl(prompt string, opts ...Option) {
	env := lisp.NewEnv(nil)

	envOpts := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithLibrary(&lisp.RelativeFileSystemLibrary{}),
	}

	cfg := newConfig(opts...)
	if cfg.stdout != nil {
		envOpts = append(envOpts, lisp.WithStdout(cfg.stdout))
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr))
	}

	rc := lisp.InitializeUserEnv(env, envOpts...)
	if !rc.IsNil() {
		errlnf("Language initialization failure: %v", rc)
		os.Exit(1)
	}
	rc = lisplib.LoadLibrary(env)
	if !rc.IsNil() {
		errlnf("Stdlib initialization failure: %v", rc)
		os.Exit(1)
	}

	RunEnv(env, prompt, opts...)
}

// RunEnv runs a repl with env as a root environment.  One line is read per
// prompt; the line "(exit)" ends the loop.
func RunEnv(env *lisp.LEnv, prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	if cfg.stdout != nil {
		env.Runtime.Stdout = cfg.stdout
	}
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}

	rlCfg := &readline.Config{
		Prompt:            prompt,
		HistoryFile:       historyPath(),
		HistorySearchFold: true,
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	renderer := &diagnostic.Renderer{}
	for {
		raw, err := rl.ReadSlice()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			break
		}
		line := string(bytes.TrimSpace(raw))
		if line == "" {
			continue
		}
		if line == ExitForm {
			break
		}
		EvalLine(env, renderer, line)
	}
}

// EvalLine reads and evaluates one line of input against env, printing each
// non-nil result to the runtime's stdout and rendering errors to stderr.
func EvalLine(env *lisp.LEnv, renderer *diagnostic.Renderer, line string) {
	rt := env.Runtime
	exprs, err := rt.Reader.Read("stdin", strings.NewReader(line), rt.Heap)
	if err != nil {
		renderer.Render(rt.Stderr, err) //nolint:errcheck // best-effort error display
		return
	}
	for _, expr := range exprs {
		val := env.Eval(expr)
		rt.CollectIfNeeded(env)
		if val.Type == lisp.LError {
			renderer.Render(rt.Stderr, lisp.GoError(val)) //nolint:errcheck // best-effort error display
			fmt.Fprintln(rt.Stdout)                       //nolint:errcheck // stdout still receives one newline
			break
		}
		if !val.IsNil() {
			fmt.Fprintln(rt.Stdout, val) //nolint:errcheck // best-effort REPL output
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".slip_history")
}

func errlnf(format string, v ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, v...)
}
