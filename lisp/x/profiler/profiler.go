// Copyright © 2024 The SLIP authors

// Package profiler publishes evaluation spans from the interpreter to
// tracing backends.  An annotator implements lisp.Profiler and is attached
// to a runtime with lisp.WithProfiler or Enable.
package profiler

import (
	"fmt"
	"regexp"

	"github.com/slip-lang/slip/lisp"
)

// profiler carries the state shared by every annotator implementation.
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
}

// SkipFilter returns true for functions whose calls should not be traced.
type SkipFilter func(fun *lisp.LVal) bool

// Option configures an annotator.
type Option func(*profiler)

// WithSkipFilter returns an Option that suppresses spans for functions
// matched by filter.
func WithSkipFilter(filter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = filter
	}
}

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

// skipTrace decides whether a call to v produces a span.
func (p *profiler) skipTrace(v *lisp.LVal) bool {
	return !p.enabled || p.skipFilter != nil && p.skipFilter(v)
}

var builtinRegex = regexp.MustCompile("\\<builtin-[a-z]+ \\`\\`(.*)\\'\\'\\>")

// funName returns a canonical name for fun suitable for span labels.
func funName(fun *lisp.LVal) string {
	if fun.Type != lisp.LFun {
		return ""
	}
	fd := fun.FunData()
	if fd.Name != "" {
		return fd.Name
	}
	if builtinRegex.MatchString(fd.FID) {
		return builtinRegex.FindStringSubmatch(fd.FID)[1]
	}
	return fd.FID
}

// funSource returns the source file and line a user-defined function first
// appeared at, when known.
func funSource(fun *lisp.LVal) (string, int) {
	if fun.Source != nil {
		return fun.Source.File, fun.Source.Line
	}
	fd := fun.FunData()
	if fd.Body != nil && fd.Body.Type == lisp.LCons && fd.Body.Car.Source != nil {
		return fd.Body.Car.Source.File, fd.Body.Car.Source.Line
	}
	return "", 0
}
