// Copyright © 2024 The SLIP authors

package token

import (
	"io"
)

// Scanner facilitates construction of tokens from a byte stream (io.Reader).
// The scanner operates on raw bytes.  Source text is not required to be valid
// utf-8, matching the interpreter's byte-oriented string and symbol values.
type Scanner struct {
	file string
	path string

	buf []byte

	start     int // start of the current token
	pos       int // index of the next unread byte
	line      int // line number at pos
	startLine int // line number at start

	readErr error
}

// NewScanner initializes and returns a new Scanner.  The contents of r are
// consumed eagerly.
func NewScanner(file string, r io.Reader) *Scanner {
	buf, err := io.ReadAll(r)
	return &Scanner{
		file:      file,
		buf:       buf,
		line:      1,
		startLine: 1,
		readErr:   err,
	}
}

// SetPath associates a physical location (e.g. filesystem path) with s to aid
// in debugging projects which scan many ungrouped files.
func (s *Scanner) SetPath(path string) {
	s.path = path
}

// Err returns an error encountered while reading the input stream.
func (s *Scanner) Err() error {
	return s.readErr
}

// EmitToken returns a token containing the text scanned since the last call
// to either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.pos
	s.startLine = s.line
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.buf[s.start:s.pos])
}

// EOF returns true once every byte of the input has been scanned.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.buf)
}

// Peek returns the next byte to be scanned, if there is one.
func (s *Scanner) Peek() (byte, bool) {
	if s.EOF() {
		return 0, false
	}
	return s.buf[s.pos], true
}

// ScanByte consumes the next byte of input for inclusion in the current
// token.  ScanByte returns false at the end of the stream.
func (s *Scanner) ScanByte() bool {
	if s.EOF() {
		return false
	}
	if s.buf[s.pos] == '\n' {
		s.line++
	}
	s.pos++
	return true
}

// Accept consumes the next byte of input if fn accepts it.
func (s *Scanner) Accept(fn func(byte) bool) bool {
	c, ok := s.Peek()
	if !ok {
		return false
	}
	if fn(c) {
		return s.ScanByte()
	}
	return false
}

// AcceptByte consumes the next byte of input if it equals c.
func (s *Scanner) AcceptByte(c byte) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if peek == c {
		return s.ScanByte()
	}
	return false
}

// AcceptSeq consumes a run of bytes accepted by fn and returns the length of
// the run.
func (s *Scanner) AcceptSeq(fn func(byte) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

// AcceptSeqDigit consumes a run of decimal digits.
func (s *Scanner) AcceptSeqDigit() int {
	return s.AcceptSeq(func(c byte) bool { return '0' <= c && c <= '9' })
}

// LocStart returns a Location referencing the beginning of the current token,
// just beyond the end of the previous token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Line: s.startLine,
		Pos:  s.start,
	}
}

// Loc returns a Location referencing the current scanner position.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Line: s.line,
		Pos:  s.pos,
	}
}
