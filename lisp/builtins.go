// Copyright © 2024 The SLIP authors

package lisp

import (
	"fmt"
	"strings"
)

// LBuiltinDef is a built-in function definition.
type LBuiltinDef interface {
	Name() string
	Formals() []string
	Eval(env *LEnv, args []*LVal) *LVal
}

type langBuiltin struct {
	name    string
	formals []string
	fun     LBuiltin
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() []string {
	return fun.formals
}

func (fun *langBuiltin) Eval(env *LEnv, args []*LVal) *LVal {
	return fun.fun(env, args)
}

// errorTolerant names the builtins that receive error values as ordinary
// arguments.  Everywhere else an error produced by an argument expression is
// returned unchanged by the enclosing expression.
var errorTolerant = map[string]bool{
	"type": true,
}

var userBuiltins []*langBuiltin

var langBuiltins = []*langBuiltin{
	{"car", []string{"lis"}, builtinCAR},
	{"cdr", []string{"lis"}, builtinCDR},
	{"cons", []string{"head", "tail"}, builtinCons},
	{"setcar", []string{"pair", "value"}, builtinSetCar},
	{"setcdr", []string{"pair", "value"}, builtinSetCdr},
	{"list", []string{VarArgSymbol}, builtinList},
	{"append", []string{VarArgSymbol}, builtinAppend},
	{"len", []string{"seq"}, builtinLen},
	{"find", []string{"lis", "value"}, builtinFind},
	{"last", []string{"lis"}, builtinLast},
	{"copy", []string{"value"}, builtinCopy},
	{"type", []string{"value"}, builtinType},
	{"print", []string{"value"}, builtinPrint},
	{"read", []string{"source"}, builtinRead},
	{"apply", []string{"fn", VarArgSymbol}, builtinApply},
	{"error", []string{VarArgSymbol}, builtinError},
	{"macroexpand", []string{"form"}, builtinMacroExpand},
	{"macroexpand-1", []string{"form"}, builtinMacroExpand1},
	{"import", []string{"path"}, builtinImport},
	{"gc", []string{}, builtinGC},
	{"=", []string{"a", VarArgSymbol}, builtinEqual},
	{"<", []string{"a", VarArgSymbol}, builtinLT},
	{">", []string{"a", VarArgSymbol}, builtinGT},
	{"+", []string{VarArgSymbol}, builtinAdd},
	{"-", []string{VarArgSymbol}, builtinSub},
	{"*", []string{VarArgSymbol}, builtinMul},
	{"/", []string{"a", VarArgSymbol}, builtinDiv},
}

// RegisterDefaultBuiltin adds the given function to the list returned by
// DefaultBuiltins.
func RegisterDefaultBuiltin(name string, formals []string, fn LBuiltin) {
	userBuiltins = append(userBuiltins, &langBuiltin{name, formals, fn})
}

// DefaultBuiltins returns the default set of LBuiltinDef installed by
// InitializeUserEnv.
func DefaultBuiltins() []LBuiltinDef {
	funs := make([]LBuiltinDef, len(langBuiltins)+len(userBuiltins))
	for i := range langBuiltins {
		funs[i] = langBuiltins[i]
	}
	offset := len(langBuiltins)
	for i := range userBuiltins {
		funs[offset+i] = userBuiltins[i]
	}
	return funs
}

func builtinCAR(env *LEnv, args []*LVal) *LVal {
	v := args[0]
	switch v.Type {
	case LNil:
		return v
	case LCons:
		return v.Car
	}
	return env.Errorf("type error: car expects a list (got %s)", v.TypeName())
}

func builtinCDR(env *LEnv, args []*LVal) *LVal {
	v := args[0]
	switch v.Type {
	case LNil:
		return v
	case LCons:
		return v.Cdr
	}
	return env.Errorf("type error: cdr expects a list (got %s)", v.TypeName())
}

func builtinCons(env *LEnv, args []*LVal) *LVal {
	return env.Runtime.Heap.Cons(args[0], args[1])
}

func builtinSetCar(env *LEnv, args []*LVal) *LVal {
	pair := args[0]
	if pair.Type != LCons {
		return env.Errorf("type error: setcar expects a cons (got %s)", pair.TypeName())
	}
	pair.Car = args[1]
	return pair
}

func builtinSetCdr(env *LEnv, args []*LVal) *LVal {
	pair := args[0]
	if pair.Type != LCons {
		return env.Errorf("type error: setcdr expects a cons (got %s)", pair.TypeName())
	}
	pair.Cdr = args[1]
	return pair
}

func builtinList(env *LEnv, args []*LVal) *LVal {
	// The rest list assembled by the calling convention is already the
	// freshly consed result.
	return args[0]
}

func builtinAppend(env *LEnv, args []*LVal) *LVal {
	var cells []*LVal
	for cell := args[0]; cell.Type == LCons; cell = cell.Cdr {
		arg := cell.Car
		if arg.IsNil() {
			continue
		}
		if arg.Len() < 0 {
			return env.Errorf("type error: append expects lists (got %s)", arg.TypeName())
		}
		cells = append(cells, listSlice(arg)...)
	}
	return env.Runtime.Heap.list(cells)
}

func builtinLen(env *LEnv, args []*LVal) *LVal {
	v := args[0]
	switch v.Type {
	case LNil:
		return env.Runtime.Heap.Int(0)
	case LString:
		return env.Runtime.Heap.Int(len(v.Str))
	case LCons:
		n := v.Len()
		if n < 0 {
			return env.Errorf("type error: len expects a proper list")
		}
		return env.Runtime.Heap.Int(n)
	}
	return env.Errorf("type error: len expects a list or string (got %s)", v.TypeName())
}

func builtinFind(env *LEnv, args []*LVal) *LVal {
	lis, want := args[0], args[1]
	if !lis.IsNil() && lis.Type != LCons {
		return env.Errorf("type error: find expects a list (got %s)", lis.TypeName())
	}
	for cell := lis; cell.Type == LCons; cell = cell.Cdr {
		if cell.Car.Equal(want) {
			return cell.Car
		}
	}
	return env.Runtime.Heap.Nil()
}

func builtinLast(env *LEnv, args []*LVal) *LVal {
	lis := args[0]
	if lis.IsNil() {
		return lis
	}
	if lis.Type != LCons {
		return env.Errorf("type error: last expects a list (got %s)", lis.TypeName())
	}
	for ; lis.Cdr.Type == LCons; lis = lis.Cdr {
	}
	return lis.Car
}

func builtinCopy(env *LEnv, args []*LVal) *LVal {
	return env.Runtime.Heap.Copy(args[0])
}

func builtinType(env *LEnv, args []*LVal) *LVal {
	return env.Runtime.Heap.String(args[0].TypeName())
}

func builtinPrint(env *LEnv, args []*LVal) *LVal {
	s := args[0].String()
	fmt.Fprintln(env.Runtime.getStdout(), s) //nolint:errcheck // best-effort output
	return env.Runtime.Heap.String(s)
}

func builtinRead(env *LEnv, args []*LVal) *LVal {
	src := args[0]
	if src.Type != LString {
		return env.Errorf("type error: read expects a string (got %s)", src.TypeName())
	}
	if env.Runtime.Reader == nil {
		return env.Errorf("no reader for environment runtime")
	}
	exprs, err := env.Runtime.Reader.Read("read", strings.NewReader(src.Str), env.Runtime.Heap)
	if err != nil {
		return env.Errorf("syntax error: %s", err)
	}
	if len(exprs) == 0 {
		return env.Runtime.Heap.Nil()
	}
	return exprs[0]
}

// builtinApply flattens a trailing list argument into the argument vector
// and invokes fn without re-evaluating macro results.
func builtinApply(env *LEnv, args []*LVal) *LVal {
	fn := args[0]
	if fn.Type != LFun {
		return env.Errorf("type error: apply expects a function (got %s)", fn.TypeName())
	}
	given := listSlice(args[1])
	var flat []*LVal
	for i, v := range given {
		if i == len(given)-1 && (v.Type == LCons || v.IsNil()) {
			flat = append(flat, listSlice(v)...)
			break
		}
		flat = append(flat, v)
	}
	return env.funCall(fn, flat)
}

func builtinError(env *LEnv, args []*LVal) *LVal {
	parts := listSlice(args[0])
	msgs := make([]string, len(parts))
	for i, part := range parts {
		msgs[i] = part.String()
	}
	return env.Errorf("%s", strings.Join(msgs, " "))
}

func builtinMacroExpand(env *LEnv, args []*LVal) *LVal {
	return env.MacroExpand(args[0])
}

func builtinMacroExpand1(env *LEnv, args []*LVal) *LVal {
	expanded, _ := env.MacroExpand1(args[0])
	return expanded
}

func builtinImport(env *LEnv, args []*LVal) *LVal {
	path := args[0]
	if path.Type != LString && path.Type != LSymbol {
		return env.Errorf("type error: import expects a path (got %s)", path.TypeName())
	}
	lerr := env.root().LoadFile(path.Str)
	if lerr.Type == LError {
		return lerr
	}
	return env.Runtime.Heap.Nil()
}

func builtinGC(env *LEnv, args []*LVal) *LVal {
	// Collection cannot run here: argument vectors of enclosing calls are
	// invisible to the marker.  Request a cycle at the next top-level
	// checkpoint instead.
	env.Runtime.Heap.RequestCollection()
	return env.Runtime.Heap.Nil()
}

func builtinEqual(env *LEnv, args []*LVal) *LVal {
	prev := args[0]
	for cell := args[1]; cell.Type == LCons; cell = cell.Cdr {
		if prev.Type == LFun || cell.Car.Type == LFun {
			return env.Errorf("type error: functions compare by identity only")
		}
		if !prev.Equal(cell.Car) {
			return env.Runtime.Heap.Bool(false)
		}
		prev = cell.Car
	}
	return env.Runtime.Heap.Bool(true)
}

func builtinLT(env *LEnv, args []*LVal) *LVal {
	return numericCompare(env, "<", args, func(a, b int) bool { return a < b })
}

func builtinGT(env *LEnv, args []*LVal) *LVal {
	return numericCompare(env, ">", args, func(a, b int) bool { return a > b })
}

func numericCompare(env *LEnv, name string, args []*LVal, ok func(a, b int) bool) *LVal {
	prev := args[0]
	if prev.Type != LInt {
		return env.Errorf("type error: %s expects numbers (got %s)", name, prev.TypeName())
	}
	for cell := args[1]; cell.Type == LCons; cell = cell.Cdr {
		v := cell.Car
		if v.Type != LInt {
			return env.Errorf("type error: %s expects numbers (got %s)", name, v.TypeName())
		}
		if !ok(prev.Int, v.Int) {
			return env.Runtime.Heap.Bool(false)
		}
		prev = v
	}
	return env.Runtime.Heap.Bool(true)
}

func builtinAdd(env *LEnv, args []*LVal) *LVal {
	sum := 0
	for cell := args[0]; cell.Type == LCons; cell = cell.Cdr {
		if cell.Car.Type != LInt {
			return env.Errorf("type error: + expects numbers (got %s)", cell.Car.TypeName())
		}
		sum += cell.Car.Int
	}
	return env.Runtime.Heap.Int(sum)
}

func builtinSub(env *LEnv, args []*LVal) *LVal {
	vals := listSlice(args[0])
	for _, v := range vals {
		if v.Type != LInt {
			return env.Errorf("type error: - expects numbers (got %s)", v.TypeName())
		}
	}
	switch len(vals) {
	case 0:
		return env.Runtime.Heap.Int(0)
	case 1:
		return env.Runtime.Heap.Int(-vals[0].Int)
	}
	diff := vals[0].Int
	for _, v := range vals[1:] {
		diff -= v.Int
	}
	return env.Runtime.Heap.Int(diff)
}

func builtinMul(env *LEnv, args []*LVal) *LVal {
	prod := 1
	for cell := args[0]; cell.Type == LCons; cell = cell.Cdr {
		if cell.Car.Type != LInt {
			return env.Errorf("type error: * expects numbers (got %s)", cell.Car.TypeName())
		}
		prod *= cell.Car.Int
	}
	return env.Runtime.Heap.Int(prod)
}

func builtinDiv(env *LEnv, args []*LVal) *LVal {
	quot := args[0]
	if quot.Type != LInt {
		return env.Errorf("type error: / expects numbers (got %s)", quot.TypeName())
	}
	q := quot.Int
	for cell := args[1]; cell.Type == LCons; cell = cell.Cdr {
		v := cell.Car
		if v.Type != LInt {
			return env.Errorf("type error: / expects numbers (got %s)", v.TypeName())
		}
		if v.Int == 0 {
			return env.Errorf("division by zero")
		}
		q /= v.Int
	}
	return env.Runtime.Heap.Int(q)
}
