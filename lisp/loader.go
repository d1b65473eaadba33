// Copyright © 2024 The SLIP authors

package lisp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Reader abstracts a parser implementation so that it may be implemented in
// a separate package as an optional/swappable component.  Parsed values must
// be allocated through h so that they are registered with the collector.
type Reader interface {
	// Read the contents of r and return the sequence of LVals that it
	// contains.  The returned LVals are evaluated as a batch of top-level
	// forms.
	Read(name string, r io.Reader, h *Heap) ([]*LVal, error)
}

// SourceLibrary locates and reads lisp source for ``import''.
type SourceLibrary interface {
	// LoadSource resolves loc and returns a display name for the stream
	// along with its contents.
	LoadSource(loc string) (name string, src []byte, err error)
}

// RelativeFileSystemLibrary reads sources from the host filesystem,
// resolving relative paths against the process working directory.
type RelativeFileSystemLibrary struct{}

var _ SourceLibrary = (*RelativeFileSystemLibrary)(nil)

// LoadSource implements SourceLibrary.
func (lib *RelativeFileSystemLibrary) LoadSource(loc string) (string, []byte, error) {
	src, err := os.ReadFile(loc)
	if err != nil {
		return "", nil, err
	}
	return filepath.Base(loc), src, nil
}

// MapLibrary serves sources from an in-memory map, keyed by location.  The
// location itself is returned as the stream's display name.
type MapLibrary map[string][]byte

var _ SourceLibrary = MapLibrary(nil)

// LoadSource implements SourceLibrary.
func (lib MapLibrary) LoadSource(loc string) (string, []byte, error) {
	src, ok := lib[loc]
	if !ok {
		return "", nil, fmt.Errorf("no such source location: %s", loc)
	}
	return loc, src, nil
}
