// Released under an MIT license. See LICENSE.

// Package fault provides the typed failures reported by the softmacs core.
package fault

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
)

// Kind classifies a failure.
type Kind int

// Failure kinds.
const (
	Internal Kind = iota
	UnboundSymbol
	UnresolvedReference
	NotCombinable
	NoActivePrompt
	ContinuationReused
	ArityOrShape
	NotInternable
	Syntax
)

//nolint:gochecknoglobals
var kinds = map[Kind]string{
	Internal:            "internal error",
	UnboundSymbol:       "unbound symbol",
	UnresolvedReference: "unresolved reference",
	NotCombinable:       "not combinable",
	NoActivePrompt:      "no active prompt",
	ContinuationReused:  "continuation reused",
	ArityOrShape:        "arity or shape error",
	NotInternable:       "not internable",
	Syntax:              "syntax error",
}

// String returns the name of the kind k.
func (k Kind) String() string {
	if s, ok := kinds[k]; ok {
		return s
	}

	return "unknown failure"
}

// T (fault) is a failure carrying the offending term.
type T struct {
	Kind Kind
	Term cell.I // Offending term, symbol or reference. May be nil.
	Msg  string
	Err  error // Underlying cause. May be nil.
}

type fault = T

// Sentinels for use with errors.Is.
//
//nolint:gochecknoglobals
var (
	ErrUnboundSymbol       = &fault{Kind: UnboundSymbol}
	ErrUnresolvedReference = &fault{Kind: UnresolvedReference}
	ErrNotCombinable       = &fault{Kind: NotCombinable}
	ErrNoActivePrompt      = &fault{Kind: NoActivePrompt}
	ErrContinuationReused  = &fault{Kind: ContinuationReused}
	ErrArityOrShape        = &fault{Kind: ArityOrShape}
	ErrNotInternable       = &fault{Kind: NotInternable}
	ErrSyntax              = &fault{Kind: Syntax}
)

// New creates a fault of kind k for the term c.
func New(k Kind, c cell.I, msg string) *fault {
	return &fault{Kind: k, Term: c, Msg: msg}
}

// Wrap creates a fault of kind k for the term c caused by err.
func Wrap(k Kind, c cell.I, err error) *fault {
	return &fault{Kind: k, Term: c, Err: err}
}

// Error returns the text of the fault f.
func (f *fault) Error() string {
	s := f.Kind.String()

	if f.Term != nil {
		s += ": " + literal.String(f.Term)
	}

	if f.Msg != "" {
		s += ": " + f.Msg
	}

	if f.Err != nil {
		s += ": " + f.Err.Error()
	}

	return s
}

// Is reports whether target is a fault of the same kind.
func (f *fault) Is(target error) bool {
	t, ok := target.(*fault)

	return ok && t.Kind == f.Kind
}

// Unwrap returns the underlying cause.
func (f *fault) Unwrap() error {
	return f.Err
}

// Shape panics with an ArityOrShape fault for the term c.
func Shape(c cell.I, msg string) {
	panic(New(ArityOrShape, c, msg))
}
