// Copyright © 2024 The SLIP authors

// Package lisplib loads the standard library shipped with the interpreter.
// The library is ordinary slip source embedded in the binary and evaluated
// into the root environment.
package lisplib

import (
	"bytes"
	"embed"

	"github.com/slip-lang/slip/lisp"
)

//go:embed core.lisp iteration.lisp
var sources embed.FS

// Files lists the library sources in load order.
var Files = []string{"core.lisp", "iteration.lisp"}

// LoadLibrary evaluates the standard library sources into env's root.
func LoadLibrary(env *lisp.LEnv) *lisp.LVal {
	for _, name := range Files {
		src, err := sources.ReadFile(name)
		if err != nil {
			return env.Errorf("import error: %s", err)
		}
		lerr := env.Load(name, bytes.NewReader(src))
		if lerr.Type == lisp.LError {
			return lerr
		}
	}
	return env.Runtime.Heap.Nil()
}
