// Copyright © 2024 The SLIP authors

package lisp

// Eval evaluates v in the context (scope) of env and returns the resulting
// LVal.  Eval does not modify v.
//
// Numbers, strings, booleans, keywords, errors, functions, and nil evaluate
// to themselves.  A symbol evaluates by environment lookup; an unbound
// symbol yields nil and the error is reported by whichever expression
// consumed the symbol.  A cons evaluates as a special form when its head
// names one, and as an application otherwise.
func (env *LEnv) Eval(v *LVal) *LVal {
	switch v.Type {
	case LSymbol:
		return env.Get(v)
	case LCons:
		return env.evalCons(v)
	default:
		return v
	}
}

func (env *LEnv) evalCons(v *LVal) *LVal {
	if head := v.Car; head.Type == LSymbol {
		if op, ok := langSpecialForms[head.Str]; ok {
			return op(env, v.Cdr)
		}
	}
	f := env.Eval(v.Car)
	if f.Type == LError {
		return f
	}
	if f.IsNil() {
		return env.Errorf("name error: function '%s' is undefined", v.Car)
	}
	if f.Type != LFun {
		return env.Errorf("type error: cannot call %s value", f.TypeName())
	}

	var args []*LVal
	if f.IsMacro() {
		// Macro arguments are passed unevaluated.
		args = listSlice(v.Cdr)
	} else {
		// Evaluate arguments left to right before invoking f.  An error
		// value produced by an argument is returned unchanged unless the
		// callee inspects errors (``type'' does).
		tolerant := f.Fun.Builtin != nil && errorTolerant[f.Fun.Name]
		for cell := v.Cdr; cell.Type == LCons; cell = cell.Cdr {
			a := env.Eval(cell.Car)
			if a.Type == LError && !tolerant {
				return a
			}
			args = append(args, a)
		}
	}

	r := env.funCall(f, args)
	if r.Type == LError {
		return r
	}
	if f.IsMacro() {
		// The value returned by a macro is code; evaluate it in the caller's
		// environment to realise the expansion.
		return env.Eval(r)
	}
	return r
}

// FunCall invokes f with the given argument vector.  The result of a macro
// invoked through FunCall is not evaluated a second time; ``apply'' and
// ``macroexpand'' rely on that.
func (env *LEnv) FunCall(f *LVal, args []*LVal) *LVal {
	if f.Type != LFun {
		return env.Errorf("type error: cannot call %s value", f.TypeName())
	}
	return env.funCall(f, args)
}

func (env *LEnv) funCall(f *LVal, args []*LVal) *LVal {
	h := env.Runtime.Heap
	fd := f.Fun

	if env.Runtime.Profiler != nil && env.Runtime.Profiler.IsEnabled() {
		defer env.Runtime.Profiler.Start(f)()
	}

	// Collect arguments at and beyond the rest position into a fresh list.
	// Parameters left of the rest position receive the leading arguments;
	// parameters following it bind nil below.
	if fd.RestIndex >= 0 && len(args) >= fd.RestIndex {
		rest := h.list(args[fd.RestIndex:])
		args = append(args[:fd.RestIndex:fd.RestIndex], rest)
	}

	if fd.Builtin != nil {
		if lerr := env.checkArity(fd, args); lerr != nil {
			return lerr
		}
		if err := env.Runtime.Stack.Push(fd.FID, fd.Name, env); err != nil {
			return env.Errorf("%s", err)
		}
		defer env.Runtime.Stack.Pop()
		return fd.Builtin(env, args)
	}

	fenv := NewEnv(fd.Env)
	i := 0
	for cell := fd.Formals; cell.Type == LCons; cell = cell.Cdr {
		sym := cell.Car
		if sym.Type != LSymbol {
			return env.Errorf("type error: parameter is not a symbol: %s", sym)
		}
		if i < len(args) {
			fenv.Scope[sym.Str] = args[i]
		} else {
			fenv.Scope[sym.Str] = h.Nil()
		}
		i++
	}
	if err := env.Runtime.Stack.Push(fd.FID, fd.Name, fenv); err != nil {
		return env.Errorf("%s", err)
	}
	defer env.Runtime.Stack.Pop()

	ret := h.Nil()
	for cell := fd.Body; cell.Type == LCons; cell = cell.Cdr {
		ret = fenv.Eval(cell.Car)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

func (env *LEnv) checkArity(fd *LFunData, args []*LVal) *LVal {
	name := fd.Name
	if name == "" {
		name = fd.FID
	}
	if fd.RestIndex >= 0 {
		// After collection a complete call site supplies exactly the leading
		// parameters plus the rest list.
		if len(args) != fd.RestIndex+1 {
			return env.Errorf("arity error: %s expects at least %d arguments (got %d)",
				name, fd.RestIndex, len(args))
		}
		return nil
	}
	want := fd.Formals.Len()
	if len(args) != want {
		return env.Errorf("arity error: %s expects %d arguments (got %d)",
			name, want, len(args))
	}
	return nil
}

// listSlice returns the elements of the proper list v.  Improper tails are
// ignored.
func listSlice(v *LVal) []*LVal {
	var s []*LVal
	for ; v.Type == LCons; v = v.Cdr {
		s = append(s, v.Car)
	}
	return s
}
