// Copyright © 2024 The SLIP authors

package lisp

import (
	"fmt"
	"io"
	"os"
)

// SlipVersion is the interpreter version.
const SlipVersion = "0.3"

// Runtime is the process-wide interpreter state: the heap registry and its
// counters, the reader, the source library used by ``import'', the output
// sinks, and the call stack rooted by the collector.  A Runtime is shared by
// every environment in one tree and is passed explicitly rather than held in
// package globals.
type Runtime struct {
	Heap     *Heap
	Reader   Reader
	Library  SourceLibrary
	Stack    *CallStack
	Stdout   io.Writer
	Stderr   io.Writer
	Profiler Profiler

	nfun uint
}

// GenFID returns a fresh function identifier for an anonymous function.
func (rt *Runtime) GenFID() string {
	rt.nfun++
	return fmt.Sprintf("_fun%d", rt.nfun)
}

// StandardRuntime returns a new Runtime with an empty heap and the standard
// output sinks.
func StandardRuntime() *Runtime {
	return &Runtime{
		Heap:   NewHeap(),
		Stack:  NewCallStack(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (rt *Runtime) getStdout() io.Writer {
	if rt.Stdout == nil {
		return os.Stdout
	}
	return rt.Stdout
}

func (rt *Runtime) getStderr() io.Writer {
	if rt.Stderr == nil {
		return os.Stderr
	}
	return rt.Stderr
}

// Profiler is consulted around every function call made by the evaluator.
// The x/profiler package provides implementations that publish spans to
// tracing backends.
type Profiler interface {
	// IsEnabled reports whether the profiler is recording.
	IsEnabled() bool
	// Enable starts the profiler recording.
	Enable() error
	// Complete ends the profiling session.
	Complete() error
	// Start marks the start of a call to fun and returns a function marking
	// its end.
	Start(fun *LVal) func()
}
