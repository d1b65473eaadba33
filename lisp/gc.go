// Copyright © 2024 The SLIP authors

package lisp

// The collector is a plain mark-and-sweep over the heap registry.  Marking
// starts from the root environment chain and from every frame referenced by
// the in-flight call stack, so closures' child frames for an active let,
// lambda body, or macro expansion are never reclaimed.  Sweeping unlinks
// unmarked objects and clears the mark bit of survivors so the next cycle
// starts from a clean slate.

// CollectIfNeeded runs a mark-sweep cycle when the allocation counter has
// outgrown the live set, or when a collection was requested explicitly.  It
// is called between top-level forms; triggering anywhere else risks
// sweeping a value that is only reachable from a half-built structure.
func (rt *Runtime) CollectIfNeeded(env *LEnv) {
	if rt.Stack.Height() > 0 {
		// A nested load (import) hit a checkpoint while calls are in
		// flight.  Argument vectors under construction are invisible to the
		// marker, so the cycle waits for the outermost checkpoint.
		return
	}
	if !rt.Heap.sizeToCollect() {
		return
	}
	rt.Collect(env)
}

// Collect unconditionally runs a mark-sweep cycle using env's root and the
// runtime's call stack as roots.
func (rt *Runtime) Collect(env *LEnv) {
	h := rt.Heap
	h.markEnv(env.root())
	for _, frame := range rt.Stack.Frames {
		h.markEnv(frame.Env)
	}
	h.sweep()
	h.forced = false
}

func (h *Heap) mark(v *LVal) {
	if v == nil || v.mark {
		return
	}
	v.mark = true
	switch v.Type {
	case LCons:
		h.mark(v.Car)
		h.mark(v.Cdr)
	case LFun:
		if v.Fun != nil {
			h.mark(v.Fun.Formals)
			h.mark(v.Fun.Body)
			h.markEnv(v.Fun.Env)
		}
	}
}

func (h *Heap) markEnv(env *LEnv) {
	if env == nil || env.mark {
		return
	}
	env.mark = true
	for _, v := range env.Scope {
		h.mark(v)
	}
	h.markEnv(env.Parent)
}

func (h *Heap) sweep() {
	live := 0

	ptr := h.tail
	for ptr != nil {
		if !ptr.mark {
			// Save the traversal pointer before unlinking; following it
			// afterwards would walk freed territory.
			prev := ptr.prev
			if prev != nil {
				prev.next = ptr.next
			}
			if ptr.next != nil {
				ptr.next.prev = prev
			}
			if ptr == h.tail {
				h.tail = prev
			}
			ptr.next = nil
			ptr.prev = nil
			ptr = prev
			continue
		}
		ptr.mark = false
		live++
		ptr = ptr.prev
	}

	// Frames are swept like values.  A frame referenced only by a dead
	// closure is unreachable from any root and is released here.
	var keep *LEnv
	env := h.envs
	for env != nil {
		next := env.next
		if env.mark {
			env.mark = false
			env.next = keep
			keep = env
			live++
		} else {
			env.next = nil
		}
		env = next
	}
	h.envs = keep

	h.nlive = live
	h.nalloc = 0
}
