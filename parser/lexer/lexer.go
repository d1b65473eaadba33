// Copyright © 2024 The SLIP authors

package lexer

import (
	"fmt"

	"github.com/slip-lang/slip/parser/token"
)

// Symbols may contain any printable byte other than the delimiters below.
// A leading '-' followed by a digit starts a number instead.
const reservedRunes = "()'`,\";"

type Lexer struct {
	scanner *token.Scanner
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken scans and returns the next token in the stream.
func (lex *Lexer) ReadToken() *token.Token {
	lex.skipWhitespace()
	if lex.scanner.EOF() {
		return lex.emit(token.EOF, "")
	}
	c, _ := lex.scanner.Peek()
	switch c {
	case '(':
		return lex.charToken(token.PAREN_L)
	case ')':
		return lex.charToken(token.PAREN_R)
	case '\'':
		return lex.charToken(token.QUOTE)
	case '`':
		return lex.charToken(token.BACKTICK)
	case ',':
		return lex.charToken(token.COMMA)
	case ';':
		lex.scanner.AcceptSeq(func(c byte) bool { return c != '\n' })
		return lex.emitText(token.COMMENT)
	case '"':
		return lex.readString()
	case '-':
		lex.scanner.ScanByte()
		if peek, ok := lex.scanner.Peek(); ok && isDigit(peek) {
			return lex.readNumber()
		}
		return lex.readSymbol()
	default:
		if isDigit(c) {
			return lex.readNumber()
		}
		if isSymbol(c) {
			return lex.readSymbol()
		}
		return lex.errorf("unexpected text starting with %q", c)
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) *token.Token {
	return lex.scanner.EmitToken(typ)
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emit(token.ERROR, fmt.Sprintf(format, v...))
}

func (lex *Lexer) charToken(typ token.Type) *token.Token {
	lex.scanner.ScanByte()
	return lex.emitText(typ)
}

func (lex *Lexer) readString() *token.Token {
	lex.scanner.ScanByte() // opening quote
	lex.scanner.AcceptSeq(func(c byte) bool { return c != '"' && c != '\n' })
	if !lex.scanner.AcceptByte('"') {
		if lex.scanner.EOF() {
			return lex.errorf("unterminated string literal")
		}
		// A newline inside a string literal is a lexical error.
		return lex.errorf("unterminated string literal")
	}
	return lex.emitText(token.STRING)
}

func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeqDigit()
	return lex.emitText(token.NUMBER)
}

func (lex *Lexer) readSymbol() *token.Token {
	lex.scanner.AcceptSeq(isSymbol)
	return lex.emitText(token.SYMBOL)
}

func (lex *Lexer) skipWhitespace() {
	n := lex.scanner.AcceptSeq(isSpace)
	if n > 0 {
		lex.scanner.Ignore()
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSymbol(c byte) bool {
	if c <= ' ' || c > '~' {
		return false
	}
	for i := 0; i < len(reservedRunes); i++ {
		if c == reservedRunes[i] {
			return false
		}
	}
	return true
}
