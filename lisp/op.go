// Copyright © 2024 The SLIP authors

package lisp

// A special form receives its argument list unevaluated and controls
// evaluation itself.  Special forms are dispatched by name before the head
// of an expression is evaluated; they are not first-class values.
type specialForm func(env *LEnv, args *LVal) *LVal

var langSpecialForms map[string]specialForm

func init() {
	langSpecialForms = map[string]specialForm{
		"quote":      opQuote,
		"quasiquote": opQuasiquote,
		"eval":       opEval,
		"define":     opDefine,
		"set":        opSet,
		"let":        opLet,
		"if":         opIf,
		"do":         opDo,
		"lambda":     opLambda,
		"macro":      opMacro,
	}
}

// SpecialFormNames returns the names reserved for special forms.
func SpecialFormNames() []string {
	names := make([]string, 0, len(langSpecialForms))
	for name := range langSpecialForms {
		names = append(names, name)
	}
	return names
}

func opQuote(env *LEnv, args *LVal) *LVal {
	if args.Type != LCons || !args.Cdr.IsNil() {
		return env.Errorf("arity error: quote expects a single form (got %d)", args.Len())
	}
	return args.Car
}

func opEval(env *LEnv, args *LVal) *LVal {
	if args.Type != LCons || !args.Cdr.IsNil() {
		return env.Errorf("arity error: eval expects a single form (got %d)", args.Len())
	}
	v := env.Eval(args.Car)
	if v.Type == LError {
		return v
	}
	return env.Eval(v)
}

func opDefine(env *LEnv, args *LVal) *LVal {
	if args.Len() != 2 {
		return env.Errorf("arity error: define expects a name and a value (got %d)", args.Len())
	}
	name := args.Car
	if name.Type != LSymbol {
		return env.Errorf("type error: defined name is not a symbol: %s", name)
	}
	v := env.Eval(args.Cdr.Car)
	if v.Type == LError {
		return v
	}
	if v.Type == LFun && v.Fun.Name == "" {
		v.Fun.Name = name.Str
	}
	return env.PutRoot(name, v)
}

// opSet accepts either (set name value) or (set (n1 v1) (n2 v2) ...).  The
// binding is updated in the innermost frame that already has one, matching
// the behavior of set inside a closure over a let binding.
func opSet(env *LEnv, args *LVal) *LVal {
	if args.IsNil() {
		return env.Runtime.Heap.Nil()
	}
	if args.Car.Type == LSymbol {
		if args.Len() != 2 {
			return env.Errorf("arity error: set expects a name and a value (got %d)", args.Len())
		}
		v := env.Eval(args.Cdr.Car)
		if v.Type == LError {
			return v
		}
		return env.Update(args.Car, v)
	}
	for cell := args; cell.Type == LCons; cell = cell.Cdr {
		pair := cell.Car
		if pair.Len() != 2 || pair.Car.Type != LSymbol {
			return env.Errorf("type error: set binding is not a name-value pair: %s", pair)
		}
		v := env.Eval(pair.Cdr.Car)
		if v.Type == LError {
			return v
		}
		lerr := env.Update(pair.Car, v)
		if lerr.Type == LError {
			return lerr
		}
	}
	return env.Runtime.Heap.Nil()
}

// opLet evaluates each binding value in the enclosing environment, binds the
// names into a fresh child frame, and evaluates the body there.
func opLet(env *LEnv, args *LVal) *LVal {
	if args.Type != LCons {
		return env.Errorf("arity error: let expects a binding list and a body")
	}
	bindings := args.Car
	if bindings.Type != LCons && !bindings.IsNil() {
		return env.Errorf("type error: let bindings are not a list: %s", bindings)
	}
	child := NewEnv(env)
	for cell := bindings; cell.Type == LCons; cell = cell.Cdr.Cdr {
		name := cell.Car
		if name.Type != LSymbol {
			return env.Errorf("type error: let binding name is not a symbol: %s", name)
		}
		if cell.Cdr.Type != LCons {
			return env.Errorf("arity error: let binding '%s' has no value", name)
		}
		v := env.Eval(cell.Cdr.Car)
		if v.Type == LError {
			return v
		}
		child.Scope[name.Str] = v
	}
	if err := env.Runtime.Stack.Push("_let", "let", child); err != nil {
		return env.Errorf("%s", err)
	}
	defer env.Runtime.Stack.Pop()
	ret := env.Runtime.Heap.Nil()
	for cell := args.Cdr; cell.Type == LCons; cell = cell.Cdr {
		ret = child.Eval(cell.Car)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

func opIf(env *LEnv, args *LVal) *LVal {
	n := args.Len()
	if n != 2 && n != 3 {
		return env.Errorf("arity error: if expects 2 or 3 forms (got %d)", n)
	}
	c := env.Eval(args.Car)
	if c.Type == LError {
		return c
	}
	if True(c) {
		return env.Eval(args.Cdr.Car)
	}
	if n == 3 {
		return env.Eval(args.Cdr.Cdr.Car)
	}
	return env.Runtime.Heap.Nil()
}

func opDo(env *LEnv, args *LVal) *LVal {
	ret := env.Runtime.Heap.Nil()
	for cell := args; cell.Type == LCons; cell = cell.Cdr {
		ret = env.Eval(cell.Car)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

func opLambda(env *LEnv, args *LVal) *LVal {
	return makeClosure(env, args, LFunNone)
}

func opMacro(env *LEnv, args *LVal) *LVal {
	return makeClosure(env, args, LFunMacro)
}

// makeClosure allocates a user-defined callable.  The captured environment
// is a fresh child of the current environment, so bindings defined after the
// closure (including the closure's own name) remain visible to its body.
func makeClosure(env *LEnv, args *LVal, ft LFunType) *LVal {
	if args.Type != LCons {
		return env.Errorf("arity error: %s expects a parameter list and a body", ft.closureForm())
	}
	formals := args.Car
	if formals.Type != LCons && !formals.IsNil() {
		return env.Errorf("type error: parameter list is not a list: %s", formals)
	}
	for cell := formals; cell.Type == LCons; cell = cell.Cdr {
		if cell.Car.Type != LSymbol {
			return env.Errorf("type error: parameter is not a symbol: %s", cell.Car)
		}
	}
	h := env.Runtime.Heap
	fenv := NewEnv(env)
	fid := env.Runtime.GenFID()
	if ft == LFunMacro {
		return h.UserMacro(fid, formals, args.Cdr, fenv)
	}
	return h.UserFunction(fid, formals, args.Cdr, fenv)
}

func (ft LFunType) closureForm() string {
	if ft == LFunMacro {
		return "macro"
	}
	return "lambda"
}
