// Copyright © 2024 The SLIP authors

// Package parser provides the default recursive descent reader for slip
// source text.
//
//	expr  := QUOTE expr        → (quote expr)
//	       | BACKTICK expr     → (quasiquote expr)
//	       | COMMA expr        → (unquote expr)
//	       | LPAREN list
//	       | atom
//	list  := RPAREN            → nil
//	       | expr* RPAREN
//	atom  := NUMBER | STRING | SYMBOL
package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/slip-lang/slip/lisp"
	"github.com/slip-lang/slip/parser/lexer"
	"github.com/slip-lang/slip/parser/token"
)

type reader struct{}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.  Lexical and syntax problems are reported as
// error values in the returned stream, terminating it; the returned Go error
// covers stream-level failures only.
func (*reader) Read(name string, r io.Reader, h *lisp.Heap) ([]*lisp.LVal, error) {
	s := token.NewScanner(name, r)
	if err := s.Err(); err != nil {
		return nil, err
	}
	p := New(s, h)
	return p.ParseProgram()
}

// Parser is a recursive descent lisp parser.  Parsing is non-destructive and
// produces a fresh value graph allocated through the parser's heap.
type Parser struct {
	lex  *lexer.Lexer
	heap *lisp.Heap
	peek *token.Token
	tok  *token.Token
}

// New initializes and returns a new Parser reading tokens scanned from s and
// allocating values from h.
func New(s *token.Scanner, h *lisp.Heap) *Parser {
	return &Parser{
		lex:  lexer.New(s),
		heap: h,
	}
}

// ParseProgram parses a sequence of expressions until the stream is
// exhausted or a syntax problem is encountered.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			return exprs, nil
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if expr.Type == lisp.LError {
			// The remainder of the stream cannot be trusted once the token
			// stream has derailed.
			return exprs, nil
		}
	}
}

// Parse is a generic entry point that is similar to ParseExpression but is
// capable of handling EOF before reading an expression.
func (p *Parser) Parse() (*lisp.LVal, error) {
	p.ignoreComments()
	if p.peekType() == token.EOF {
		return nil, io.EOF
	}
	return p.ParseExpression(), nil
}

// ParseExpression parses a single expression.  Unlike Parse, ParseExpression
// requires an expression to be present in the input stream and reports an
// unexpected EOF as an error value.
func (p *Parser) ParseExpression() *lisp.LVal {
	p.ignoreComments()
	switch p.peekType() {
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		return p.parseString()
	case token.SYMBOL:
		return p.parseSymbol()
	case token.QUOTE:
		return p.parseShorthand("quote")
	case token.BACKTICK:
		return p.parseShorthand("quasiquote")
	case token.COMMA:
		return p.parseShorthand("unquote")
	case token.PAREN_L:
		return p.parseList()
	case token.PAREN_R:
		p.readToken()
		return p.errorf("syntax error: unexpected ')'")
	case token.ERROR, token.INVALID:
		p.readToken()
		return p.errorf("syntax error: %s", p.tok.Text)
	default:
		p.readToken()
		return p.errorf("syntax error: unexpected token: %v", p.tok.Type)
	}
}

func (p *Parser) parseNumber() *lisp.LVal {
	p.readToken()
	text := p.tok.Text
	x, err := strconv.Atoi(text)
	if err != nil {
		return p.errorf("syntax error: number literal overflows int: %v", text)
	}
	return p.located(p.heap.Int(x))
}

func (p *Parser) parseString() *lisp.LVal {
	p.readToken()
	// The lexer guarantees surrounding quotes; the value stores the raw
	// bytes between them.
	text := p.tok.Text
	return p.located(p.heap.String(text[1 : len(text)-1]))
}

func (p *Parser) parseSymbol() *lisp.LVal {
	p.readToken()
	if strings.HasPrefix(p.tok.Text, ":") {
		return p.located(p.heap.Keyword(p.tok.Text))
	}
	return p.located(p.heap.Symbol(p.tok.Text))
}

func (p *Parser) parseShorthand(name string) *lisp.LVal {
	p.readToken()
	sym := p.located(p.heap.Symbol(name))
	expr := p.ParseExpression()
	if expr.Type == lisp.LError {
		return expr
	}
	return p.heap.List(sym, expr)
}

func (p *Parser) parseList() *lisp.LVal {
	p.readToken()
	open := p.tok
	var cells []*lisp.LVal
	for {
		p.ignoreComments()
		switch p.peekType() {
		case token.EOF:
			return p.errorf("syntax error: unmatched %s", open.Text)
		case token.PAREN_R:
			p.readToken()
			return p.heap.List(cells...)
		}
		x := p.ParseExpression()
		if x.Type == lisp.LError {
			return x
		}
		cells = append(cells, x)
	}
}

func (p *Parser) ignoreComments() {
	for p.peekType() == token.COMMENT {
		p.readToken()
	}
}

func (p *Parser) readToken() *token.Token {
	if p.peek != nil {
		p.tok = p.peek
		p.peek = nil
		return p.tok
	}
	p.tok = p.lex.ReadToken()
	return p.tok
}

func (p *Parser) peekToken() *token.Token {
	if p.peek == nil {
		p.peek = p.lex.ReadToken()
	}
	return p.peek
}

func (p *Parser) peekType() token.Type {
	return p.peekToken().Type
}

func (p *Parser) located(v *lisp.LVal) *lisp.LVal {
	v.Source = p.tok.Source
	return v
}

func (p *Parser) errorf(format string, v ...interface{}) *lisp.LVal {
	lerr := p.heap.Errorf(format, v...)
	if p.tok != nil {
		lerr.Source = p.tok.Source
	}
	return lerr
}
