// Copyright © 2024 The SLIP authors

package lisp_test

import (
	"testing"

	"github.com/slip-lang/slip/sliptest"
)

func TestQuasiquote(t *testing.T) {
	tests := sliptest.TestSuite{
		{"quasiquote without unquote is quote", sliptest.TestSequence{
			{"`5", "5", ""},
			{"`a", "a", ""},
			{"`(a b c)", "(a b c)", ""},
			{"`(a (b c))", "(a (b c))", ""},
			{"(quasiquote (a b))", "(a b)", ""},
		}},
		{"unquote evaluates in the enclosing environment", sliptest.TestSequence{
			{"(define c 5)", "nil", ""},
			{"`(a b ,c)", "(a b 5)", ""},
			{"`(a ,(+ 1 2) b)", "(a 3 b)", ""},
			{"`(x (y ,c))", "(x (y 5))", ""},
			{"`,c", "5", ""},
		}},
		{"the template is not mutated", sliptest.TestSequence{
			{"(define c 1)", "nil", ""},
			{"(define tmpl (lambda () `(a ,c)))", "nil", ""},
			{"(tmpl)", "(a 1)", ""},
			{"(set c 2)", "nil", ""},
			{"(tmpl)", "(a 2)", ""},
		}},
		{"unquote errors propagate", sliptest.TestSequence{
			{"(type `(a ,(error 'boom)))", "error", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestMacros(t *testing.T) {
	tests := sliptest.TestSuite{
		{"macros receive unevaluated arguments", sliptest.TestSequence{
			{"(define firstarg (macro (x y) `(quote ,x)))", "nil", ""},
			{"(firstarg (no such function) 2)", "(no such function)", ""},
		}},
		{"macro expansion is evaluated again", sliptest.TestSequence{
			{"(define m1 (macro (x) `(+ ,x ,x)))", "nil", ""},
			{"(m1 6)", "12", ""},
			{"(m1 (+ 1 2))", "6", ""},
		}},
		{"macroexpand-1 expands one step", sliptest.TestSequence{
			{"(define m1 (macro (x) `(m2 ,x)))", "nil", ""},
			{"(define m2 (macro (y) `(+ ,y ,y)))", "nil", ""},
			{"(macroexpand-1 '(m1 6))", "(m2 6)", ""},
			{"(macroexpand '(m1 6))", "(+ 6 6)", ""},
			{"(macroexpand-1 '(+ 1 2))", "(+ 1 2)", ""},
			{"(macroexpand '(not-a-macro 1))", "(not-a-macro 1)", ""},
		}},
		{"macros expand recursively through the evaluator", sliptest.TestSequence{
			{"(define m1 (macro (x) `(m2 ,x)))", "nil", ""},
			{"(define m2 (macro (y) `(+ ,y ,y)))", "nil", ""},
			{"(m1 6)", "12", ""},
		}},
		{"rest parameters collect macro arguments", sliptest.TestSequence{
			{"(define quoteall (macro (&) `(quote ,&)))", "nil", ""},
			{"(quoteall a b c)", "(a b c)", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestUserRedefinedAppend(t *testing.T) {
	// The quasiquote engine builds its result by evaluating a synthesized
	// (append (list (quote x)) ...) form, so redefining append changes how
	// templates are assembled.
	tests := sliptest.TestSuite{
		{"redefined append intercepts template assembly", sliptest.TestSequence{
			{"(define append (lambda (&) '(intercepted)))", "nil", ""},
			{"`(a b)", "(intercepted)", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}
