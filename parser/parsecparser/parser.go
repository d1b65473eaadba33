// Copyright © 2024 The SLIP authors

/*
Package parsecparser provides an alternative reader built on parser
combinators.  It covers the same grammar as the default recursive descent
reader:

	expr   := '(' <expr>* ')' | shorthand <expr> | <number> | <string> | <symbol>
	shorthand := ' | ` | ,
	number := /-?[0-9]+ /
	string := '"' /[^"\n]* / '"'
	symbol := any printable run free of delimiters
*/
package parsecparser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	parsec "github.com/prataprc/goparsec"

	"github.com/slip-lang/slip/lisp"
)

// NewReader returns a lisp.Reader backed by parser combinators.
func NewReader() lisp.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

// Read implements lisp.Reader.
func (p *parsecReader) Read(name string, r io.Reader, h *lisp.Heap) ([]*lisp.LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	vals, n, err := ParseLVal(h, b)
	if err != nil {
		// The reader contract reports syntax problems as error values.
		vals = append(vals, h.Errorf("syntax error: %s", err))
		return vals, nil
	}
	if n != len(b) {
		vals = append(vals, h.Errorf("syntax error: trailing source text"))
	}
	return vals, nil
}

// ParseLVal parses LVal values from text and returns them along with the
// number of bytes consumed.
func ParseLVal(h *lisp.Heap, text []byte) ([]*lisp.LVal, int, error) {
	var v []*lisp.LVal
	s := parsec.NewScanner(text)
	parser := newParsecParser(h)
	root, s := parser(s)
	for root != nil {
		lval, err := nodeLVal(root)
		if err != nil {
			return v, s.GetCursor(), err
		}
		if lval != nil {
			v = append(v, lval)
		}
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		b, _ := s.Match(`.{1,16}`)
		if len(b) > 15 {
			b = append(b[:15:15], []byte("...")...)
		}
		return v, s.GetCursor(), fmt.Errorf("unexpected source text possibly starting: %s", b)
	}
	return v, s.GetCursor(), nil
}

func newParsecParser(h *lisp.Heap) parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	quote := parsec.Atom("'", "QUOTE")
	backtick := parsec.Atom("`", "BACKTICK")
	comma := parsec.Atom(",", "COMMA")
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	number := parsec.Token(`-?[0-9]+`, "NUMBER")
	str := parsec.Token(`"[^"\n]*"`, "STRING")
	symbol := parsec.Token(`[^\s()'`+"`"+`,";]+`, "SYMBOL")

	term := parsec.OrdChoice(termNode(h),
		str,
		number,
		symbol, // symbol comes last because it swallows anything
	)

	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(listNode(h), openP, exprList, closeP)
	sexprUnmatched := parsec.And(unmatchedNode, openP, exprList, parsec.End())
	quoted := parsec.And(shorthandNode(h, "quote"), quote, &expr)
	quasi := parsec.And(shorthandNode(h, "quasiquote"), backtick, &expr)
	unquoted := parsec.And(shorthandNode(h, "unquote"), comma, &expr)
	expr = parsec.OrdChoice(nil,
		comment,
		term,
		sexpr,
		quoted,
		quasi,
		unquoted,
		// Error matching cases come last because they have the lowest
		// precedence.
		sexprUnmatched,
	)
	return expr
}

// nodeLVal unwraps a parser result.  Comment terminals yield a nil LVal and
// Go errors surface as reader errors.
func nodeLVal(node parsec.ParsecNode) (*lisp.LVal, error) {
	switch node := node.(type) {
	case *lisp.LVal:
		return node, nil
	case error:
		return nil, node
	case *parsec.Terminal:
		if node.Name == "COMMENT" {
			return nil, nil
		}
		return nil, fmt.Errorf("unexpected token: %s", node.Value)
	case []parsec.ParsecNode:
		if len(node) == 1 {
			return nodeLVal(node[0])
		}
		return nil, fmt.Errorf("unexpected parse node")
	default:
		return nil, fmt.Errorf("unexpected parse node: %T", node)
	}
}

func termNode(h *lisp.Heap) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		if len(nodes) == 0 {
			return nil
		}
		switch term := nodes[0].(type) {
		case string:
			// parsec.String() would unquote; raw STRING terminals keep the
			// literal bytes between the quotes.
			return h.String(term)
		case *parsec.Terminal:
			switch term.Name {
			case "STRING":
				return h.String(term.Value[1 : len(term.Value)-1])
			case "NUMBER":
				x, err := strconv.Atoi(term.Value)
				if err != nil {
					return fmt.Errorf("number literal overflows int: %s", term.Value)
				}
				return h.Int(x)
			case "SYMBOL":
				if strings.HasPrefix(term.Value, ":") {
					return h.Keyword(term.Value)
				}
				return h.Symbol(term.Value)
			}
		}
		return nodes[0]
	}
}

func listNode(h *lisp.Heap) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		var cells []*lisp.LVal
		for _, node := range collectNodes(nodes) {
			switch node := node.(type) {
			case *lisp.LVal:
				cells = append(cells, node)
			case error:
				return node
			}
		}
		return h.List(cells...)
	}
}

func shorthandNode(h *lisp.Heap, name string) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		flat := collectNodes(nodes)
		for _, node := range flat {
			switch node := node.(type) {
			case *lisp.LVal:
				return h.List(h.Symbol(name), node)
			case error:
				return node
			}
		}
		return fmt.Errorf("%s shorthand is missing a form", name)
	}
}

func unmatchedNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	return fmt.Errorf("unmatched '('")
}

// collectNodes flattens nested node slices, dropping delimiter terminals and
// comments.
func collectNodes(nodes []parsec.ParsecNode) []parsec.ParsecNode {
	var flat []parsec.ParsecNode
	for _, node := range nodes {
		switch node := node.(type) {
		case []parsec.ParsecNode:
			flat = append(flat, collectNodes(node)...)
		case *parsec.Terminal:
			// delimiters and comments carry no value
		case parsec.MaybeNone:
		default:
			flat = append(flat, node)
		}
	}
	return flat
}
