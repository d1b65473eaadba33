// Copyright © 2024 The SLIP authors

package lisp

// Quasiquote evaluates a template in which (unquote expr) forms are replaced
// by their evaluated results.  The engine works on a deep copy of the
// template spine so that the in-place rewrite below never mutates the source
// graph; the same form may be evaluated again (macro bodies usually are).
//
// The rewritten template is not returned directly.  Each top-level element
// is wrapped in (list (quote x)) and the wrappers are folded with append;
// evaluating that synthetic form yields the spliced result and lets programs
// redefine list or append to intercept template construction.

func opQuasiquote(env *LEnv, args *LVal) *LVal {
	if args.Type != LCons || !args.Cdr.IsNil() {
		return env.Errorf("arity error: quasiquote expects a single form (got %d)", args.Len())
	}
	h := env.Runtime.Heap
	tmpl := h.Copy(args.Car)
	if isUnquoteForm(tmpl) {
		if tmpl.Len() != 2 {
			return env.Errorf("arity error: unquote expects a single form (got %d)", tmpl.Len()-1)
		}
		return env.Eval(tmpl.Cdr.Car)
	}
	if tmpl.Type != LCons {
		return tmpl
	}
	if lerr := env.unquoteRewrite(tmpl); lerr != nil {
		return lerr
	}
	if tmpl.Len() < 0 {
		// Improper spines cannot be rebuilt with append; the rewritten copy
		// is already the result.
		return tmpl
	}
	var parts []*LVal
	for cell := tmpl; cell.Type == LCons; cell = cell.Cdr {
		quoted := h.List(h.Symbol("quote"), cell.Car)
		parts = append(parts, h.List(h.Symbol("list"), quoted))
	}
	synth := h.Cons(h.Symbol("append"), h.list(parts))
	return env.Eval(synth)
}

// unquoteRewrite replaces every (unquote expr) cell reachable from the cons
// v with the evaluation of expr.  The rewrite mutates v, which must be a
// private copy.  A non-nil return is an error value.
func (env *LEnv) unquoteRewrite(v *LVal) *LVal {
	for cell := v; cell.Type == LCons; cell = cell.Cdr {
		car := cell.Car
		if isUnquoteForm(car) {
			if car.Len() != 2 {
				return env.Errorf("arity error: unquote expects a single form (got %d)", car.Len()-1)
			}
			r := env.Eval(car.Cdr.Car)
			if r.Type == LError {
				return r
			}
			cell.Car = r
			continue
		}
		if car.Type == LCons {
			if lerr := env.unquoteRewrite(car); lerr != nil {
				return lerr
			}
		}
	}
	return nil
}

func isUnquoteForm(v *LVal) bool {
	return v.Type == LCons && v.Car.Type == LSymbol && v.Car.Str == "unquote"
}

// MacroExpand1 performs a single macro expansion of form.  When the head of
// form does not name a macro the form is returned unchanged and the second
// return value is false.  The expansion is not evaluated.
func (env *LEnv) MacroExpand1(form *LVal) (*LVal, bool) {
	if form.Type != LCons || form.Car.Type != LSymbol {
		return form, false
	}
	f := env.Get(form.Car)
	if f.Type != LFun || !f.IsMacro() {
		return form, false
	}
	return env.funCall(f, listSlice(form.Cdr)), true
}

// MacroExpand expands form repeatedly until its head no longer names a
// macro.  The expansion is not evaluated.
func (env *LEnv) MacroExpand(form *LVal) *LVal {
	for {
		expanded, ok := env.MacroExpand1(form)
		if !ok || expanded.Type == LError {
			return expanded
		}
		form = expanded
	}
}
