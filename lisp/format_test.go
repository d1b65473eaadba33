// Copyright © 2024 The SLIP authors

package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintFormats(t *testing.T) {
	h := NewHeap()
	tests := []struct {
		v    *LVal
		want string
	}{
		{h.Int(0), "0"},
		{h.Int(-42), "-42"},
		{h.String("hello"), "hello"},
		{h.String(""), ""},
		{h.Symbol("sym"), "sym"},
		{h.Keyword(":kw"), ":kw"},
		{h.Bool(true), "true"},
		{h.Bool(false), "false"},
		{h.Nil(), "nil"},
		{h.Errorf("boom"), "boom"},
		{h.List(h.Int(1), h.Int(2), h.Int(3)), "(1 2 3)"},
		{h.Cons(h.Int(1), h.Int(2)), "(1 . 2)"},
		{h.Cons(h.Int(1), h.Cons(h.Int(2), h.Int(3))), "(1 2 . 3)"},
		{h.List(h.List(h.Symbol("a")), h.Nil()), "((a) nil)"},
		{h.Cons(h.Nil(), h.Nil()), "(nil)"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.v.String())
	}
}

func TestEqual(t *testing.T) {
	h := NewHeap()
	assert.True(t, h.Int(1).Equal(h.Int(1)))
	assert.False(t, h.Int(1).Equal(h.Int(2)))
	assert.False(t, h.Int(1).Equal(h.String("1")))
	assert.True(t, h.Symbol("a").Equal(h.Symbol("a")))
	assert.True(t, h.Nil().Equal(h.Nil()))
	assert.True(t,
		h.List(h.Int(1), h.List(h.Int(2))).Equal(
			h.List(h.Int(1), h.List(h.Int(2)))))
	assert.False(t,
		h.List(h.Int(1)).Equal(h.List(h.Int(1), h.Int(2))))

	// functions compare by identity
	fn := h.BuiltinFunction("f", func(env *LEnv, args []*LVal) *LVal { return env.Runtime.Heap.Nil() })
	fn2 := h.BuiltinFunction("f", func(env *LEnv, args []*LVal) *LVal { return env.Runtime.Heap.Nil() })
	assert.True(t, fn.Equal(fn))
	assert.False(t, fn.Equal(fn2))
}

func TestListLen(t *testing.T) {
	h := NewHeap()
	assert.Equal(t, 0, h.Nil().Len())
	assert.Equal(t, 3, h.List(h.Int(1), h.Int(2), h.Int(3)).Len())
	assert.Equal(t, -1, h.Cons(h.Int(1), h.Int(2)).Len())
}

func TestUserFunRestIndex(t *testing.T) {
	h := NewHeap()
	env := NewEnv(nil)
	formals := h.List(h.Symbol("a"), h.Symbol("b"), h.Symbol(VarArgSymbol))
	fn := h.UserFunction("f", formals, h.Nil(), env)
	assert.Equal(t, 2, fn.Fun.RestIndex)

	formals = h.List(h.Symbol("a"))
	fn = h.UserFunction("f", formals, h.Nil(), env)
	assert.Equal(t, -1, fn.Fun.RestIndex)
}
