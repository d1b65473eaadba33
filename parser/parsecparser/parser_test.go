// Copyright © 2024 The SLIP authors

package parsecparser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slip-lang/slip/lisp"
	"github.com/slip-lang/slip/parser/parsecparser"
)

func TestParsecReader(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"5", []string{"5"}},
		{"-5", []string{"-5"}},
		{"sym", []string{"sym"}},
		{":kw", []string{":kw"}},
		{`"str"`, []string{"str"}},
		{"()", []string{"nil"}},
		{"(1 2 3)", []string{"(1 2 3)"}},
		{"(a (b c) d)", []string{"(a (b c) d)"}},
		{"'x", []string{"(quote x)"}},
		{"`(a ,b)", []string{"(quasiquote (a (unquote b)))"}},
		{"1 (2 3) x", []string{"1", "(2 3)", "x"}},
		{"a ; comment\nb", []string{"a", "b"}},
	}
	for _, test := range tests {
		h := lisp.NewHeap()
		vals, err := parsecparser.NewReader().Read("test", strings.NewReader(test.src), h)
		require.NoError(t, err, "src: %s", test.src)
		require.Len(t, vals, len(test.want), "src: %s", test.src)
		for i, want := range test.want {
			assert.Equal(t, want, vals[i].String(), "src: %s", test.src)
		}
	}
}

func TestParsecReaderErrors(t *testing.T) {
	tests := []string{
		"(a b",
		")",
	}
	for _, src := range tests {
		h := lisp.NewHeap()
		vals, err := parsecparser.NewReader().Read("test", strings.NewReader(src), h)
		require.NoError(t, err, "src: %s", src)
		require.NotEmpty(t, vals, "src: %s", src)
		assert.Equal(t, lisp.LError, vals[len(vals)-1].Type, "src: %s", src)
	}
}

func TestParsecReaderAgreesWithKeywordTypes(t *testing.T) {
	h := lisp.NewHeap()
	vals, err := parsecparser.NewReader().Read("test", strings.NewReader("(:a b 1)"), h)
	require.NoError(t, err)
	require.Len(t, vals, 1)
	lis := vals[0]
	require.Equal(t, lisp.LCons, lis.Type)
	assert.Equal(t, lisp.LKeyword, lis.Car.Type)
	assert.Equal(t, lisp.LSymbol, lis.Cdr.Car.Type)
	assert.Equal(t, lisp.LInt, lis.Cdr.Cdr.Car.Type)
}
