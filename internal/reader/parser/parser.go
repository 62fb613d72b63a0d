// Released under an MIT license. See LICENSE.

// Package parser provides a recursive descent parser for softmacs s-expressions.
package parser

import (
	"errors"

	"github.com/michaelmacinnis/adapted"
	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/struct/token"
	"github.com/michaelmacinnis/softmacs/internal/common/type/boolean"
	"github.com/michaelmacinnis/softmacs/internal/common/type/list"
	"github.com/michaelmacinnis/softmacs/internal/common/type/num"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/ref"
	"github.com/michaelmacinnis/softmacs/internal/common/type/special"
	"github.com/michaelmacinnis/softmacs/internal/common/type/str"
	"github.com/michaelmacinnis/softmacs/internal/common/type/sym"
)

// T holds the state of the parser.
type T struct {
	ahead int             // Lookahead count.
	emit  func(cell.I)    // Function to call to emit a parsed term.
	item  func() *token.T // Function to call to get another token.
	token *token.T        // Token lookahead.

	partial bool // True while a term is being parsed.
}

type parser = T

// New creates a new parser.
// It connects a producer of tokens with a consumer of cells.
func New(emit func(cell.I), item func() *token.T) *T {
	return &T{emit: emit, item: item}
}

// Partial returns true if the parser is in the middle of a term.
func (p *parser) Partial() bool {
	return p.partial
}

// Parse consumes tokens and emits cells until there are no more tokens.
// The first malformed term ends the parse and its fault is returned.
func (p *parser) Parse() (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		p.partial = false

		switch r := r.(type) {
		case *fault.T:
			err = r
		case error:
			err = fault.Wrap(fault.Syntax, nil, r)
		case string:
			err = fault.New(fault.Syntax, nil, r)
		default:
			err = fault.Wrap(fault.Syntax, nil, errors.New("unexpected error"))
		}
	}()

	for t := p.peek(); t != nil; t = p.peek() {
		p.partial = true

		c := p.expression()

		p.partial = false

		p.emit(c)
	}

	return nil
}

func (p *parser) consume() *token.T {
	if p.ahead == 0 {
		panic("nothing to consume.")
	}

	t := p.token

	p.ahead = 0
	p.token = nil

	return t
}

func (p *parser) fail(t *token.T, msg string) {
	if t == nil {
		panic(fault.New(fault.Syntax, nil, "unexpected end of input"))
	}

	panic(fault.New(fault.Syntax, nil, t.Source().String()+": "+msg))
}

func (p *parser) peek() *token.T {
	if p.ahead > 0 {
		return p.token
	}

	t := p.item()

	p.token = t
	p.ahead = 1

	return t
}

// T state functions.

// <expression> ::= '\'' <expression> | '(' <list> | String | Symbol .
func (p *parser) expression() cell.I {
	t := p.peek()

	switch {
	case t.Is('\''):
		p.consume()

		return list.New(sym.New("quote"), p.expression())
	case t.Is('('):
		p.consume()

		return p.list()
	case t.Is(token.String):
		p.consume()

		return p.text(t)
	case t.Is(token.Symbol) && t.Value() != ".":
		p.consume()

		return p.atom(t)
	}

	if t != nil {
		p.fail(t, "unexpected '"+t.Value()+"'")
	}

	p.fail(nil, "")

	return nil
}

// <list> ::= ')' | <expression> ('.' <expression> ')' | <list>) .
func (p *parser) list() cell.I {
	t := p.peek()
	if t.Is(')') {
		p.consume()

		return pair.Null
	}

	car := p.expression()

	t = p.peek()
	if t.Is(token.Symbol) && t.Value() == "." {
		p.consume()

		cdr := p.expression()

		if t = p.peek(); !t.Is(')') {
			p.fail(t, "expected ')' after dotted tail")
		}

		p.consume()

		return pair.Cons(car, cdr)
	}

	return pair.Cons(car, p.list())
}

func (p *parser) atom(t *token.T) cell.I {
	s := t.Value()

	switch s[0] {
	case '#':
		switch s {
		case "#":
			return pair.Null
		case "#f":
			return boolean.False
		case "#ignore":
			return special.Ignore
		case "#inert":
			return special.Inert
		case "#t":
			return boolean.True
		}

		p.fail(t, "unknown constant '"+s+"'")
	case '@':
		h, err := ref.Parse(s[1:])
		if err != nil {
			p.fail(t, "'"+s+"' is not a content reference")
		}

		return ref.New(h)
	}

	if numeric(s) {
		if n, ok := num.Parse(s); ok {
			return n
		}
	}

	return sym.New(s)
}

func (p *parser) text(t *token.T) cell.I {
	s := t.Value()

	v, err := adapted.ActualBytes(s[1 : len(s)-1])
	if err != nil {
		p.fail(t, err.Error())
	}

	return str.New(v)
}

// Numbers start with a digit or a sign followed by a digit.
func numeric(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}

	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}
