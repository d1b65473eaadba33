// Copyright © 2024 The SLIP authors

package profiler_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"

	"github.com/slip-lang/slip/lisp"
	"github.com/slip-lang/slip/lisp/x/profiler"
	"github.com/slip-lang/slip/parser"
)

type memoryExporter struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

func (e *memoryExporter) ExportSpan(s *trace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, s)
}

func (e *memoryExporter) names() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make(map[string]bool)
	for _, span := range e.spans {
		names[span.Name] = true
	}
	return names
}

func TestNewOpenCensusAnnotator(t *testing.T) {
	exporter := &memoryExporter{}
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	trace.RegisterExporter(exporter)
	t.Cleanup(func() { trace.UnregisterExporter(exporter) })

	env := lisp.NewEnv(nil)
	env.Runtime.Reader = parser.NewReader()
	ppa := profiler.NewOpenCensusAnnotator(env.Runtime, context.Background())
	require.NoError(t, ppa.Enable())
	lerr := lisp.InitializeUserEnv(env)
	require.NoError(t, lisp.GoError(lerr))

	lerr = env.LoadString("test.lisp", testLisp)
	assert.NotEqual(t, lisp.LError, lerr.Type, lerr.Str)
	assert.NoError(t, ppa.Complete())

	names := exporter.names()
	assert.True(t, names["add-it"], "expected a span for add-it")
	assert.True(t, names["recurse-it"], "expected a span for recurse-it")
}

func TestOpenCensusAnnotatorRequiresContext(t *testing.T) {
	env := lisp.NewEnv(nil)
	ppa := profiler.NewOpenCensusAnnotator(env.Runtime, nil)
	assert.Error(t, ppa.Enable())
}
