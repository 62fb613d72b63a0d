// Released under an MIT license. See LICENSE.

// Package ui provides a command-line interface for softmacs.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/reader"
	"github.com/michaelmacinnis/softmacs/internal/system/history"
	"github.com/peterh/liner"
)

// Evaluator is the interface for things that want to process parsed terms.
type Evaluator interface {
	Eval(ctx context.Context, c cell.I, in *env.T) (cell.I, error)
}

// Run launches the UI which sends terms to the Evaluator. Each value is
// printed as "$N = value". Interrupting an evaluation cancels it.
func Run(ctx context.Context, e Evaluator, in *env.T) error {
	cooked, err := liner.TerminalMode()
	if err != nil {
		return err
	}

	cli := liner.NewLiner()
	defer cli.Close()

	uncooked, err := liner.TerminalMode()
	if err != nil {
		return err
	}

	_ = history.Load(cli.ReadHistory)

	cli.SetCtrlCAborts(true)

	r := reader.New("softmacs")
	defer func() { r.Close() }()

	s := &session{e: e, in: in, w: os.Stdout}

	for {
		prompt := "> "
		if r.Partial() {
			prompt = ". "
		}

		if err := uncooked.ApplyMode(); err != nil {
			return err
		}

		line, err := cli.Prompt(prompt)

		if merr := cooked.ApplyMode(); merr != nil {
			return merr
		}

		switch {
		case err == nil:
			cli.AppendHistory(line)
		case errors.Is(err, liner.ErrPromptAborted):
			r.Close()
			r = reader.New("softmacs")

			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(os.Stdout)

			_ = history.Save(cli.WriteHistory)

			return nil
		default:
			return err
		}

		cs, err := r.Scan(line + "\n")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)

			continue
		}

		s.evaluate(ctx, cs)
	}
}

type session struct {
	e  Evaluator
	in *env.T
	n  int
	w  io.Writer
}

// evaluate evaluates each term, printing its value or failure.
func (s *session) evaluate(ctx context.Context, cs []cell.I) {
	for _, c := range cs {
		ictx, stop := signal.NotifyContext(ctx, os.Interrupt)

		v, err := s.e.Eval(ictx, c, s.in)

		stop()

		if err != nil {
			fmt.Fprintf(s.w, "error: %v\n", err)

			continue
		}

		s.n++

		fmt.Fprintf(s.w, "$%d = %s\n", s.n, literal.String(v))
	}
}
