package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/num"
	"github.com/michaelmacinnis/softmacs/internal/common/type/sym"
)

type echo struct{}

func (echo) Eval(_ context.Context, c cell.I, _ *env.T) (cell.I, error) {
	if sym.Is(c) {
		return nil, fault.New(fault.UnboundSymbol, c, "")
	}

	return c, nil
}

func TestEvaluate(t *testing.T) {
	var b bytes.Buffer

	s := &session{e: echo{}, w: &b}

	s.evaluate(context.Background(), []cell.I{num.Int(1), sym.New("x"), num.Int(2)})

	want := "$1 = 1\nerror: unbound symbol: x\n$2 = 2\n"
	if got := b.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEvaluatorInterface(t *testing.T) {
	var e Evaluator = echo{}

	if _, err := e.Eval(context.Background(), sym.New("y"), nil); !errors.Is(err, fault.ErrUnboundSymbol) {
		t.Fatalf("expected %v, got %v", fault.ErrUnboundSymbol, err)
	}
}
