// Released under an MIT license. See LICENSE.

// Package reader turns lines of text into terms.
package reader

import (
	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/struct/token"
	"github.com/michaelmacinnis/softmacs/internal/reader/lexer"
	"github.com/michaelmacinnis/softmacs/internal/reader/parser"
)

// T (reader) encapsulates the softmacs lexer and parser.
type T struct {
	e    chan error
	i    chan string
	o    chan []cell.I
	name string
	p    *parser.T
	s    *lexer.T
	v    []cell.I
}

type reader = T

// New creates a new reader for name.
func New(name string) *T {
	r := &T{
		e:    make(chan error, 1),
		i:    make(chan string),
		o:    make(chan []cell.I),
		name: name,
	}

	r.reset()

	go r.start()

	return r
}

// Read returns the terms in text. Text that ends inside a term is an error.
func Read(name, text string) ([]cell.I, error) {
	l := lexer.New(name)

	l.Scan(text + "\n")

	var cs []cell.I

	err := parser.New(func(c cell.I) {
		cs = append(cs, c)
	}, l.Token).Parse()
	if err != nil {
		return nil, err
	}

	// Only a string can still be open after the final newline.
	if l.Partial() {
		return nil, fault.New(fault.Syntax, nil, name+": unterminated string")
	}

	return cs, nil
}

// Close terminates the reader.
func (r *reader) Close() {
	close(r.i)
}

// Partial returns true if the last line scanned left a term incomplete.
func (r *reader) Partial() bool {
	return r.p.Partial() || r.s.Partial()
}

// Scan reads the line and returns the terms it completes.
// After an error, the rest of the line is discarded and scanning starts over.
func (r *reader) Scan(line string) (cs []cell.I, err error) {
	r.i <- line

	select {
	case cs = <-r.o:
	case err = <-r.e:
	}

	return cs, err
}

func (r *reader) item() *token.T {
	for {
		if t := r.s.Token(); t != nil {
			return t
		}

		r.o <- r.v

		r.v = nil

		if !r.next() {
			return nil
		}
	}
}

func (r *reader) next() bool {
	line, ok := <-r.i
	if ok {
		r.s.Scan(line)
	}

	return ok
}

func (r *reader) reset() {
	r.s = lexer.New(r.name)
	r.p = parser.New(func(c cell.I) {
		r.v = append(r.v, c)
	}, r.item)
}

func (r *reader) start() {
	if !r.next() {
		return
	}

	for {
		err := r.p.Parse()
		if err == nil {
			return
		}

		r.v = nil
		r.reset()

		r.e <- err

		if !r.next() {
			return
		}
	}
}
