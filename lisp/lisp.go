// Copyright © 2024 The SLIP authors

package lisp

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/slip-lang/slip/parser/token"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LNil is the type of the nil value, the empty list.  There is one nil
	// value per heap and it is never collected.
	LNil
	// LInt values store a signed machine integer in the LVal.Int field.
	LInt
	// LString values store a byte sequence in the LVal.Str field.  The
	// surrounding quotes of a string literal are stripped by the reader and
	// are not part of the value.
	LString
	// LSymbol values store their name in the LVal.Str field.  Symbols
	// evaluate by environment lookup.
	LSymbol
	// LKeyword values are symbols whose textual form begins with ':'.  They
	// evaluate to themselves.
	LKeyword
	// LBool values store a boolean in the LVal.Bool field.  Booleans are a
	// type of their own: no boolean is equal to a number.
	LBool
	// LError values store a message in the LVal.Str field.  Errors are
	// ordinary values; returning one from a sub-expression aborts the
	// enclosing top-level form.
	LError
	// LCons values are pairs.  Proper lists are right-nested cons chains
	// terminated by nil.
	LCons
	// LFun values store an *LFunData in the LVal.Fun field.  The
	// LVal.FunType field distinguishes macros from regular functions.
	LFun
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var ltypeStrings = []string{
	LInvalid: "INVALID",
	LNil:     "nil",
	LInt:     "number",
	LString:  "string",
	LSymbol:  "symbol",
	LKeyword: "keyword",
	LBool:    "bool",
	LError:   "error",
	LCons:    "cons",
	LFun:     "function",
}

func (t LType) String() string {
	if t >= LType(len(ltypeStrings)) {
		return ltypeStrings[LInvalid]
	}
	return ltypeStrings[t]
}

// LFunType distinguishes macros from regular functions.  LFunNone indicates a
// normal function.
type LFunType uint8

// LFunType constants.
const (
	LFunNone LFunType = iota
	LFunMacro
)

var lfunTypeStrings = []string{
	LFunNone:  "function",
	LFunMacro: "macro",
}

func (ft LFunType) String() string {
	if ft >= LFunType(len(lfunTypeStrings)) {
		return "invalid-function-type"
	}
	return lfunTypeStrings[ft]
}

// VarArgSymbol is the parameter-list symbol that collects the remaining
// arguments of a call into a freshly consed list.  It must occupy the last
// meaningful position of a parameter list; parameters following it bind nil.
const VarArgSymbol = "&"

// TrueSymbol and FalseSymbol are the names bound to the boolean constants in
// the root environment.
const (
	TrueSymbol  = "true"
	FalseSymbol = "false"
)

// NilSymbol is the name bound to the empty list in the root environment.
const NilSymbol = "nil"

// LBuiltin is a Go function implementing a lisp builtin.  The args slice is
// the fully assembled argument vector, with any rest parameter already
// collected into a list.
type LBuiltin func(env *LEnv, args []*LVal) *LVal

// LFunData holds the callable payload of an LFun value.  A builtin has a
// non-nil Builtin field and no body.  A user-defined callable has non-nil
// Formals, Body, and Env fields.
type LFunData struct {
	Builtin LBuiltin
	Formals *LVal // proper list of parameter symbols
	Body    *LVal // proper list of body expressions
	Env     *LEnv // captured lexical environment
	FID     string
	Name    string // the name the function was registered or defined under

	// RestIndex is the zero-based position of VarArgSymbol in Formals, or -1
	// when the function has no rest parameter.
	RestIndex int
}

// LVal is a lisp value.  All LVals are allocated through a Heap, which links
// them into the collector's registry.
type LVal struct {
	// registry links and mark bit owned by the garbage collector.
	next, prev *LVal
	mark       bool

	// Source is the value's originating location in source code.  Programs
	// should not modify the contents of Source as the reference may be
	// shared by multiple LVals.
	Source *token.Location

	// Type is the native type for a value in lisp.
	Type LType

	// Int used by LInt values.
	Int int

	// Str used by LString, LSymbol, LKeyword and LError values.
	Str string

	// Bool used by LBool values.
	Bool bool

	// Car and Cdr used by LCons values.
	Car, Cdr *LVal

	// FunType further classifies LFun values.
	FunType LFunType

	// Fun used by LFun values.
	Fun *LFunData
}

// IsNil returns true if v represents nil, the empty list.
func (v *LVal) IsNil() bool {
	return v.Type == LNil
}

// IsMacro returns true if v is a macro.  IsMacro doesn't check v.Type, only
// v.FunType.
func (v *LVal) IsMacro() bool {
	return v.FunType == LFunMacro
}

// Builtin returns the Go function backing v, or nil if v is user-defined.
// Builtin panics if v is not a function.
func (v *LVal) Builtin() LBuiltin {
	return v.FunData().Builtin
}

// FunData returns the callable payload of v.  FunData panics if v is not a
// function.
func (v *LVal) FunData() *LFunData {
	if v.Type != LFun {
		panic("not a function: " + v.Type.String())
	}
	return v.Fun
}

// Env returns the captured environment of v, or nil for builtins.
func (v *LVal) Env() *LEnv {
	return v.FunData().Env
}

// FID returns the function identifier of v.
func (v *LVal) FID() string {
	return v.FunData().FID
}

// Len returns the number of elements in the list v.  Len returns 0 for nil
// and -1 for values that are not proper lists.
func (v *LVal) Len() int {
	n := 0
	for ; v.Type == LCons; v = v.Cdr {
		n++
	}
	if !v.IsNil() {
		return -1
	}
	return n
}

// Equal reports whether v and other are logically equal.  Symbols compare by
// name, numbers and booleans by scalar equality, strings by content, cons
// cells structurally, and functions by identity.
func (v *LVal) Equal(other *LVal) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LNil:
		return true
	case LInt:
		return v.Int == other.Int
	case LBool:
		return v.Bool == other.Bool
	case LString, LSymbol, LKeyword, LError:
		return v.Str == other.Str
	case LCons:
		return v.Car.Equal(other.Car) && v.Cdr.Equal(other.Cdr)
	case LFun:
		return v == other
	}
	return false
}

// TypeName returns the name reported by the ``type'' builtin.  Macros report
// "macro" rather than "function".
func (v *LVal) TypeName() string {
	if v.Type == LFun && v.IsMacro() {
		return LFunMacro.String()
	}
	return v.Type.String()
}

func (v *LVal) String() string {
	var buf bytes.Buffer
	v.writeTo(&buf)
	return buf.String()
}

func (v *LVal) writeTo(buf *bytes.Buffer) {
	switch v.Type {
	case LNil:
		buf.WriteString("nil")
	case LInt:
		buf.WriteString(strconv.Itoa(v.Int))
	case LString:
		// Strings print as their raw bytes, without surrounding quotes.
		buf.WriteString(v.Str)
	case LSymbol, LKeyword, LError:
		buf.WriteString(v.Str)
	case LBool:
		if v.Bool {
			buf.WriteString(TrueSymbol)
		} else {
			buf.WriteString(FalseSymbol)
		}
	case LCons:
		buf.WriteByte('(')
		for cell := v; ; {
			cell.Car.writeTo(buf)
			tail := cell.Cdr
			if tail.IsNil() {
				break
			}
			if tail.Type != LCons {
				// improper list
				buf.WriteString(" . ")
				tail.writeTo(buf)
				break
			}
			buf.WriteByte(' ')
			cell = tail
		}
		buf.WriteByte(')')
	case LFun:
		fmt.Fprintf(buf, "#<%s %s>", v.FunType, v.Fun.FID)
	default:
		fmt.Fprintf(buf, "#<%s>", v.Type)
	}
}
