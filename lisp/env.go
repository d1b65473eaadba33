// Copyright © 2024 The SLIP authors

package lisp

import (
	"bytes"
	"io"
	"strings"
)

// LEnv is a lisp environment, one frame of the lexical scope chain.  Frames
// are heap-allocated and scanned by the collector like any other object.
type LEnv struct {
	// registry link and mark bit owned by the garbage collector.
	next *LEnv
	mark bool

	Scope   map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
}

// NewEnv initializes and returns a new LEnv.  When parent is nil the
// returned environment is a root environment with a fresh StandardRuntime.
func NewEnv(parent *LEnv) *LEnv {
	var rt *Runtime
	if parent != nil {
		rt = parent.Runtime
	} else {
		rt = StandardRuntime()
	}
	env := &LEnv{
		Scope:   make(map[string]*LVal),
		Parent:  parent,
		Runtime: rt,
	}
	return rt.Heap.registerEnv(env)
}

// NewEnvRuntime initializes a root LEnv with an explicit runtime.  It is an
// error to share one runtime between environments in different trees.
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	env := &LEnv{
		Scope:   make(map[string]*LVal),
		Runtime: rt,
	}
	return rt.Heap.registerEnv(env)
}

func (env *LEnv) root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// Get returns the value bound to the symbol k, searching env and then its
// ancestors.  An unbound symbol yields nil; callers that require a binding
// (function application) report the error themselves.
func (env *LEnv) Get(k *LVal) *LVal {
	if k.Type != LSymbol {
		return env.Runtime.Heap.Nil()
	}
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[k.Str]; ok {
			return v
		}
	}
	return env.Runtime.Heap.Nil()
}

// Put binds k to v in env, inserting or overwriting the local binding.
func (env *LEnv) Put(k, v *LVal) *LVal {
	if k.Type != LSymbol {
		return env.Errorf("type error: cannot bind %s value", k.TypeName())
	}
	env.Scope[k.Str] = v
	return env.Runtime.Heap.Nil()
}

// PutRoot binds k to v in the root environment.  This is the binding
// operation behind ``define''.
func (env *LEnv) PutRoot(k, v *LVal) *LVal {
	return env.root().Put(k, v)
}

// Update rebinds k to v in the innermost frame that already binds it,
// falling back to env itself when no frame binds k.  This is the binding
// operation behind ``set'': setting a name inside a closure updates the
// enclosing binding in place.
func (env *LEnv) Update(k, v *LVal) *LVal {
	if k.Type != LSymbol {
		return env.Errorf("type error: cannot bind %s value", k.TypeName())
	}
	for e := env; e != nil; e = e.Parent {
		if _, ok := e.Scope[k.Str]; ok {
			e.Scope[k.Str] = v
			return env.Runtime.Heap.Nil()
		}
	}
	env.Scope[k.Str] = v
	return env.Runtime.Heap.Nil()
}

// Errorf returns a fresh LError with a formatted message.
func (env *LEnv) Errorf(format string, v ...interface{}) *LVal {
	return env.Runtime.Heap.Errorf(format, v...)
}

// LoadString reads and evaluates every expression in exprs.
func (env *LEnv) LoadString(name, exprs string) *LVal {
	return env.Load(name, strings.NewReader(exprs))
}

// Load reads expressions from r and evaluates them in order, sharing env
// across forms.  The value of the last expression is returned.  An error
// value aborts the batch and is returned.  A collection checkpoint follows
// every top-level form.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	if env.Runtime.Reader == nil {
		return env.Errorf("no reader for environment runtime")
	}
	exprs, err := env.Runtime.Reader.Read(name, r, env.Runtime.Heap)
	if err != nil {
		return env.Errorf("%s", err)
	}
	ret := env.Runtime.Heap.Nil()
	for _, expr := range exprs {
		ret = env.Eval(expr)
		env.Runtime.CollectIfNeeded(env)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// LoadFile uses env.Runtime.Library to read a lisp source file and evaluate
// the expressions it contains.
func (env *LEnv) LoadFile(loc string) *LVal {
	if env.Runtime.Library == nil {
		return env.Errorf("no source library in environment runtime")
	}
	name, src, err := env.Runtime.Library.LoadSource(loc)
	if err != nil {
		return env.Errorf("import error: %s", err)
	}
	return env.Load(name, bytes.NewReader(src))
}

// InitializeUserEnv installs the builtin surface and the boolean and nil
// constants into env's root and applies any supplied configuration.
func InitializeUserEnv(env *LEnv, config ...Config) *LVal {
	root := env.root()
	h := root.Runtime.Heap
	root.Scope[NilSymbol] = h.Nil()
	root.Scope[TrueSymbol] = h.Bool(true)
	root.Scope[FalseSymbol] = h.Bool(false)
	root.AddBuiltins(DefaultBuiltins()...)
	for _, fn := range config {
		lerr := fn(root)
		if lerr.Type == LError {
			return lerr
		}
	}
	return h.Nil()
}

// AddBuiltins binds the given builtin definitions to their names in env.
func (env *LEnv) AddBuiltins(funs ...LBuiltinDef) {
	h := env.Runtime.Heap
	for _, f := range funs {
		fid := "<builtin-function ``" + f.Name() + "''>"
		fn := h.BuiltinFunction(fid, f.Eval)
		fn.Fun.Name = f.Name()
		fn.Fun.Formals = formalList(h, f.Formals())
		fn.Fun.RestIndex = restIndex(f.Formals())
		env.Scope[f.Name()] = fn
	}
}

func formalList(h *Heap, names []string) *LVal {
	cells := make([]*LVal, len(names))
	for i, name := range names {
		cells[i] = h.Symbol(name)
	}
	return h.list(cells)
}

func restIndex(names []string) int {
	for i, name := range names {
		if name == VarArgSymbol {
			return i
		}
	}
	return -1
}
