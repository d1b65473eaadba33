// Copyright © 2024 The SLIP authors

package lisp

import (
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapRegistry(t *testing.T) {
	h := NewHeap()
	h.Int(1)
	h.Symbol("a")
	h.Cons(h.Int(2), h.Nil())
	allocs, live := h.Stats()
	assert.Equal(t, 4, allocs)
	assert.Equal(t, 0, live)
}

func TestCollectUnreachable(t *testing.T) {
	env := NewEnv(nil)
	rt := env.Runtime
	h := rt.Heap

	bound := h.Cons(h.Int(1), h.Cons(h.Int(2), h.Nil()))
	env.Put(h.Symbol("keep"), bound)

	// garbage with no references from the environment
	for i := 0; i < 100; i++ {
		h.Cons(h.Int(i), h.Nil())
	}

	rt.Collect(env)
	_, live := h.Stats()
	// The live set is the environment frame plus the bound list (two conses
	// and two ints).  Scope keys are strings, so the "keep" symbol used for
	// binding is itself garbage.
	assert.Equal(t, 5, live)

	// The kept list is intact after the sweep.
	assert.Equal(t, "(1 2)", bound.String())
}

func TestCollectPreservesClosureCycle(t *testing.T) {
	env := NewEnv(nil)
	rt := env.Runtime
	h := rt.Heap

	// A closure captures a frame which in turn binds the closure, forming a
	// cycle.  The cycle is reachable from the root and must survive.
	fenv := NewEnv(env)
	body := h.Cons(h.Symbol("x"), h.Nil())
	fun := h.UserFunction("f1", h.Nil(), body, fenv)
	fenv.Put(h.Symbol("self"), fun)
	env.Put(h.Symbol("f"), fun)

	rt.Collect(env)
	assert.Same(t, fun, env.Get(h.Symbol("f")))
	assert.Same(t, fun, fenv.Scope["self"])

	// Dropping the root reference leaves the cycle unreachable; the next
	// sweep frees both the closure and its frame.
	delete(env.root().Scope, "f")
	_, before := h.Stats()
	rt.Collect(env)
	_, after := h.Stats()
	assert.Less(t, after, before)
}

func TestCollectRootsCallStack(t *testing.T) {
	env := NewEnv(nil)
	rt := env.Runtime
	h := rt.Heap

	// A frame only referenced by an in-flight call is still a root.
	child := NewEnv(env)
	pinned := h.Cons(h.Int(7), h.Nil())
	child.Put(h.Symbol("pinned"), pinned)
	require.NoError(t, rt.Stack.Push("_let", "let", child))

	rt.Collect(env)
	assert.Equal(t, "(7)", child.Scope["pinned"].String())

	rt.Stack.Pop()
	rt.Collect(env)
	_, live := h.Stats()
	// Only the root frame remains once the stack no longer pins the child.
	assert.Equal(t, 1, live)
}

func TestCollectClearsMarks(t *testing.T) {
	env := NewEnv(nil)
	rt := env.Runtime
	h := rt.Heap

	v := h.Cons(h.Int(1), h.Nil())
	env.Put(h.Symbol("v"), v)
	rt.Collect(env)
	// Live objects must be unmarked by the sweep; otherwise objects
	// allocated later would never be re-marked relative to them.
	assert.False(t, v.mark)
	assert.False(t, env.mark)

	rt.Collect(env)
	assert.Equal(t, "(1)", v.String())
}

func TestCollectionTrigger(t *testing.T) {
	h := NewHeap()
	h.growth = 1.25
	assert.False(t, h.sizeToCollect())
	for i := 0; i < minGCThreshold; i++ {
		h.Int(i)
	}
	assert.True(t, h.sizeToCollect())
	h.sweep()
	assert.False(t, h.sizeToCollect())

	h.RequestCollection()
	assert.True(t, h.sizeToCollect())
}

func TestGCBuiltinRequestsCollection(t *testing.T) {
	env := newTestEnv(t)
	v := env.LoadString("test", "(gc)")
	require.Nil(t, GoError(v))
	// Load runs the checkpoint after the form, so the request has already
	// been honored and the counter reset.
	allocs, live := env.Runtime.Heap.Stats()
	assert.Equal(t, 0, allocs)
	assert.Greater(t, live, 0)
}

func TestGCSoundnessUnderLoad(t *testing.T) {
	env := newTestEnv(t)
	env.Runtime.Heap.growth = 1.25
	src := `
(define build
  (lambda (n)
    (if (> n 0)
        (cons n (build (- n 1)))
        nil)))
(define keep (build 50))
`
	v := env.LoadString("test", src)
	require.Nil(t, GoError(v))
	for i := 0; i < 10; i++ {
		v = env.LoadString("test", "(build 100)")
		require.Nil(t, GoError(v))
		env.Runtime.Collect(env)
	}
	v = env.LoadString("test", "(len keep)")
	require.Nil(t, GoError(v))
	if v.Type != LInt || v.Int != 50 {
		t.Errorf("expected keep to survive collection with 50 elements (got %s)", v)
	}
}

func newTestEnv(t *testing.T) *LEnv {
	t.Helper()
	env := NewEnv(nil)
	lerr := InitializeUserEnv(env, WithReader(testReader{}))
	require.Nil(t, GoError(lerr))
	return env
}

// testReader is a tiny reader for tests internal to the lisp package, where
// importing the parser package would form a cycle with the package's own
// test helpers.  It reads whitespace-separated forms with the heap-allocating
// recursive descent embedded below.
type testReader struct{}

func (testReader) Read(name string, r io.Reader, h *Heap) ([]*LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &sexprReader{src: string(b), heap: h}
	var exprs []*LVal
	for {
		v, ok := p.read()
		if !ok {
			return exprs, nil
		}
		exprs = append(exprs, v)
	}
}

type sexprReader struct {
	src  string
	pos  int
	heap *Heap
}

func (p *sexprReader) skipSpace() {
	for p.pos < len(p.src) && strings.ContainsRune(" \t\r\n", rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *sexprReader) read() (*LVal, bool) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, false
	}
	switch c := p.src[p.pos]; {
	case c == '(':
		p.pos++
		var cells []*LVal
		for {
			p.skipSpace()
			if p.pos >= len(p.src) {
				return p.heap.Errorf("syntax error: unmatched '('"), true
			}
			if p.src[p.pos] == ')' {
				p.pos++
				return p.heap.list(cells), true
			}
			v, ok := p.read()
			if !ok {
				return p.heap.Errorf("syntax error: unmatched '('"), true
			}
			cells = append(cells, v)
		}
	default:
		start := p.pos
		for p.pos < len(p.src) && !strings.ContainsRune(" \t\r\n()", rune(p.src[p.pos])) {
			p.pos++
		}
		text := p.src[start:p.pos]
		if n, err := strconv.Atoi(text); err == nil {
			return p.heap.Int(n), true
		}
		return p.heap.Symbol(text), true
	}
}
