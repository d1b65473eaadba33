// Copyright © 2024 The SLIP authors

package profiler

import (
	"context"
	"errors"

	"go.opencensus.io/trace"

	"github.com/slip-lang/slip/lisp"
)

var _ lisp.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       []context.Context
}

// NewOpenCensusAnnotator returns a profiler that appends an evaluation span
// to parentContext for every traced call.
func NewOpenCensusAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	p.contexts = append(p.contexts, p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, funName(fun))
	return func() {
		p.currentSpan.End()
		n := len(p.contexts)
		p.currentContext = p.contexts[n-1]
		p.contexts = p.contexts[:n-1]
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
