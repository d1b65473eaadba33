// Copyright © 2024 The SLIP authors

package lisp_test

import (
	"testing"

	"github.com/slip-lang/slip/sliptest"
)

func TestListBuiltins(t *testing.T) {
	tests := sliptest.TestSuite{
		{"car and cdr", sliptest.TestSequence{
			{"(car '(1 2 3))", "1", ""},
			{"(cdr '(1 2 3))", "(2 3)", ""},
			{"(car nil)", "nil", ""},
			{"(cdr nil)", "nil", ""},
			{"(type (car 5))", "error", ""},
			{"(type (cdr 5))", "error", ""},
		}},
		{"cons", sliptest.TestSequence{
			{"(cons 1 nil)", "(1)", ""},
			{"(cons 1 '(2 3))", "(1 2 3)", ""},
			{"(cons 1 2)", "(1 . 2)", ""},
			{"(cons 1 (cons 2 3))", "(1 2 . 3)", ""},
		}},
		{"setcar and setcdr", sliptest.TestSequence{
			{"(define p (cons 1 2))", "nil", ""},
			{"(setcar p 10)", "(10 . 2)", ""},
			{"(setcdr p '(20))", "(10 20)", ""},
			{"p", "(10 20)", ""},
			{"(type (setcar nil 1))", "error", ""},
		}},
		{"list", sliptest.TestSequence{
			{"(list)", "nil", ""},
			{"(list 1 2 3)", "(1 2 3)", ""},
			{"(list (+ 1 1) (+ 2 2))", "(2 4)", ""},
		}},
		{"append", sliptest.TestSequence{
			{"(append '(1 2) '(3 4))", "(1 2 3 4)", ""},
			{"(append nil '(1))", "(1)", ""},
			{"(append '(1) nil)", "(1)", ""},
			{"(append)", "nil", ""},
			{"(len (append '(1 2) '(3 4 5)))", "5", ""},
			{"(type (append '(1) 2))", "error", ""},
		}},
		{"len", sliptest.TestSequence{
			{"(len nil)", "0", ""},
			{"(len '(1 2 3))", "3", ""},
			{`(len "hello")`, "5", ""},
			{"(type (len 5))", "error", ""},
		}},
		{"find", sliptest.TestSequence{
			{"(find '(1 2 3) 2)", "2", ""},
			{"(find '(1 2 3) 9)", "nil", ""},
			{"(find '((a 1) (b 2)) '(b 2))", "(b 2)", ""},
			{"(find nil 1)", "nil", ""},
		}},
		{"last", sliptest.TestSequence{
			{"(last '(1 2 3))", "3", ""},
			{"(last nil)", "nil", ""},
		}},
		{"copy is deep on the spine", sliptest.TestSequence{
			{"(define orig '(1 (2 3)))", "nil", ""},
			{"(define dup (copy orig))", "nil", ""},
			{"(setcar dup 9)", "(9 (2 3))", ""},
			{"orig", "(1 (2 3))", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestTypeBuiltin(t *testing.T) {
	tests := sliptest.TestSuite{
		{"type names", sliptest.TestSequence{
			{"(type 5)", "number", ""},
			{`(type "s")`, "string", ""},
			{"(type 'a)", "symbol", ""},
			{"(type :kw)", "keyword", ""},
			{"(type true)", "bool", ""},
			{"(type nil)", "nil", ""},
			{"(type '(1))", "cons", ""},
			{"(type car)", "function", ""},
			{"(type (macro (x) x))", "macro", ""},
			{"(type (error 'boom))", "error", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestPrintRead(t *testing.T) {
	tests := sliptest.TestSuite{
		{"print writes and returns the rendering", sliptest.TestSequence{
			{"(print 5)", "5", "5\n"},
			{`(print "hello")`, "hello", "hello\n"},
			{"(print '(1 2))", "(1 2)", "(1 2)\n"},
		}},
		{"read parses one expression from a string", sliptest.TestSequence{
			{`(read "42")`, "42", ""},
			{`(read "(+ 1 2)")`, "(+ 1 2)", ""},
			{`(eval (read "(+ 1 2)"))`, "3", ""},
		}},
		{"read of print round-trips readable values", sliptest.TestSequence{
			{"(= (read (print 42)) 42)", "true", "42\n"},
			{"(= (read (print '(1 2 (3)))) '(1 2 (3)))", "true", "(1 2 (3))\n"},
			{"(= (read (print 'sym)) 'sym)", "true", "sym\n"},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}

func TestArithmetic(t *testing.T) {
	tests := sliptest.TestSuite{
		{"addition", sliptest.TestSequence{
			{"(+)", "0", ""},
			{"(+ 1 2 3)", "6", ""},
			{"(type (+ 1 'a))", "error", ""},
		}},
		{"subtraction", sliptest.TestSequence{
			{"(- 10 1 2)", "7", ""},
			{"(- 3)", "-3", ""},
			{"(-)", "0", ""},
		}},
		{"multiplication", sliptest.TestSequence{
			{"(*)", "1", ""},
			{"(* 2 3 4)", "24", ""},
		}},
		{"division", sliptest.TestSequence{
			{"(/ 10 2)", "5", ""},
			{"(/ 7 2)", "3", ""},
			{"(type (/ 1 0))", "error", ""},
		}},
		{"comparison", sliptest.TestSequence{
			{"(< 1 2 3)", "true", ""},
			{"(< 1 3 2)", "false", ""},
			{"(> 3 2 1)", "true", ""},
			{"(> 1 2)", "false", ""},
			{"(type (< 1 'a))", "error", ""},
		}},
		{"equality", sliptest.TestSequence{
			{"(= 1 1)", "true", ""},
			{"(= 1 2)", "false", ""},
			{`(= "a" "a")`, "true", ""},
			{"(= 'a 'a)", "true", ""},
			{"(= '(1 2) '(1 2))", "true", ""},
			{"(= '(1 2) '(1 3))", "false", ""},
			{"(= nil nil)", "true", ""},
			{"(= true true)", "true", ""},
			{"(= 1 1 1)", "true", ""},
			{"(= 1 1 2)", "false", ""},
		}},
		{"builtin arity", sliptest.TestSequence{
			{"(type (car))", "error", ""},
			{"(type (car '(1) '(2)))", "error", ""},
			{"(type (cons 1))", "error", ""},
		}},
	}
	sliptest.RunTestSuite(t, tests)
}
