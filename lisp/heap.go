// Copyright © 2024 The SLIP authors

package lisp

import (
	"fmt"
)

// DefaultGCGrowth is the default heap growth factor used to trigger a
// collection cycle.  A mark-sweep runs at the next checkpoint when the
// number of allocations since the last cycle reaches DefaultGCGrowth times
// the number of objects that survived the last cycle.
const DefaultGCGrowth = 1.25

// minGCThreshold keeps freshly initialized heaps from collecting after every
// expression while the live set is still tiny.
const minGCThreshold = 512

// Heap is the allocator for lisp values and environment frames.  Every
// allocation is linked into a registry list visible to the mark-sweep
// collector; objects are released exclusively by sweeping.
type Heap struct {
	// tail is the most recent allocation.  The registry is a doubly linked
	// list threaded through LVal.next and LVal.prev, swept from the tail.
	tail *LVal

	// envs is the registry of environment frames.  New frames are pushed on
	// the front; a sweep reverses the order of the survivors.
	envs *LEnv

	// nalloc counts allocations (values and frames) since the last
	// collection cycle.  nlive counts objects that survived the last cycle.
	nalloc int
	nlive  int

	growth float64
	forced bool

	nilVal   *LVal
	trueVal  *LVal
	falseVal *LVal
}

// NewHeap initializes and returns a new Heap.  The nil, true, and false
// singletons live outside the registry and are never collected.
func NewHeap() *Heap {
	return &Heap{
		growth:   DefaultGCGrowth,
		nilVal:   &LVal{Type: LNil},
		trueVal:  &LVal{Type: LBool, Bool: true},
		falseVal: &LVal{Type: LBool, Bool: false},
	}
}

// register links v into the heap registry.  Every constructor calls register
// exactly once; sweep is the only code that unlinks values.
func (h *Heap) register(v *LVal) *LVal {
	if h.tail != nil {
		h.tail.next = v
		v.prev = h.tail
	}
	h.tail = v
	h.nalloc++
	return v
}

func (h *Heap) registerEnv(env *LEnv) *LEnv {
	env.next = h.envs
	h.envs = env
	h.nalloc++
	return env
}

// Nil returns the heap's nil value.
func (h *Heap) Nil() *LVal {
	return h.nilVal
}

// Bool returns the heap's shared boolean value for b.
func (h *Heap) Bool(b bool) *LVal {
	if b {
		return h.trueVal
	}
	return h.falseVal
}

// Int returns a new LVal representing the number x.
func (h *Heap) Int(x int) *LVal {
	return h.register(&LVal{Type: LInt, Int: x})
}

// String returns a new LVal representing the string str.
func (h *Heap) String(str string) *LVal {
	return h.register(&LVal{Type: LString, Str: str})
}

// Symbol returns a new LVal representing the symbol s.
func (h *Heap) Symbol(s string) *LVal {
	return h.register(&LVal{Type: LSymbol, Str: s})
}

// Keyword returns a new LVal representing the keyword s.  The name includes
// the leading colon.
func (h *Heap) Keyword(s string) *LVal {
	return h.register(&LVal{Type: LKeyword, Str: s})
}

// Errorf returns a new LError with a formatted message.
func (h *Heap) Errorf(format string, v ...interface{}) *LVal {
	return h.register(&LVal{Type: LError, Str: fmt.Sprintf(format, v...)})
}

// Cons returns a new pair of car and cdr.
func (h *Heap) Cons(car, cdr *LVal) *LVal {
	return h.register(&LVal{Type: LCons, Car: car, Cdr: cdr})
}

// List returns a proper list of the given values.
func (h *Heap) List(vals ...*LVal) *LVal {
	return h.list(vals)
}

func (h *Heap) list(vals []*LVal) *LVal {
	lis := h.Nil()
	for i := len(vals) - 1; i >= 0; i-- {
		lis = h.Cons(vals[i], lis)
	}
	return lis
}

// BuiltinFunction returns a function backed by the Go function fn.
func (h *Heap) BuiltinFunction(fid string, fn LBuiltin) *LVal {
	return h.register(&LVal{
		Type: LFun,
		Fun:  &LFunData{Builtin: fn, FID: fid, RestIndex: -1, Formals: h.nilVal},
	})
}

// BuiltinMacro returns a macro backed by the Go function fn.
func (h *Heap) BuiltinMacro(fid string, fn LBuiltin) *LVal {
	return h.register(&LVal{
		Type:    LFun,
		FunType: LFunMacro,
		Fun:     &LFunData{Builtin: fn, FID: fid, RestIndex: -1, Formals: h.nilVal},
	})
}

// UserFunction returns a function with the given parameter list, body
// expressions, and captured environment.
func (h *Heap) UserFunction(fid string, formals, body *LVal, env *LEnv) *LVal {
	return h.userFun(fid, LFunNone, formals, body, env)
}

// UserMacro is UserFunction for macros.
func (h *Heap) UserMacro(fid string, formals, body *LVal, env *LEnv) *LVal {
	return h.userFun(fid, LFunMacro, formals, body, env)
}

func (h *Heap) userFun(fid string, ft LFunType, formals, body *LVal, env *LEnv) *LVal {
	rest := -1
	i := 0
	for cell := formals; cell.Type == LCons; cell = cell.Cdr {
		if cell.Car.Type == LSymbol && cell.Car.Str == VarArgSymbol && rest < 0 {
			rest = i
		}
		i++
	}
	return h.register(&LVal{
		Type:    LFun,
		FunType: ft,
		Fun: &LFunData{
			Formals:   formals,
			Body:      body,
			Env:       env,
			FID:       fid,
			RestIndex: rest,
		},
	})
}

// Copy returns a deep copy of the cons spine of v.  Atoms are immutable and
// are shared rather than copied; a fresh spine is all that in-place rewrites
// (setcar, setcdr, quasiquote) can observe.
func (h *Heap) Copy(v *LVal) *LVal {
	if v.Type != LCons {
		return v
	}
	return h.Cons(h.Copy(v.Car), h.Copy(v.Cdr))
}

// sizeToCollect reports whether enough allocation has occurred since the
// last cycle to warrant a collection.
func (h *Heap) sizeToCollect() bool {
	if h.forced {
		return true
	}
	threshold := int(h.growth * float64(h.nlive))
	if threshold < minGCThreshold {
		threshold = minGCThreshold
	}
	return h.nalloc >= threshold
}

// RequestCollection asks for a mark-sweep at the next top-level checkpoint.
// Collection never runs mid-expression where a raw allocation sequence may
// be half-formed.
func (h *Heap) RequestCollection() {
	h.forced = true
}

// Stats reports the registry counters: allocations since the last cycle and
// objects live after the last cycle.
func (h *Heap) Stats() (allocs, live int) {
	return h.nalloc, h.nlive
}
