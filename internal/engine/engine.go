// Released under an MIT license. See LICENSE.

// Package engine provides an evaluator for parsed softmacs terms.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/ref"
	"github.com/michaelmacinnis/softmacs/internal/engine/boot"
	"github.com/michaelmacinnis/softmacs/internal/engine/task"
	"github.com/michaelmacinnis/softmacs/internal/reader"
	"github.com/michaelmacinnis/softmacs/internal/store"
)

// Options configure an engine.
type Options struct {
	Logger     *slog.Logger
	Resolver   store.Resolver // Consulted for references not held locally.
	SingleShot bool           // Continuations may be invoked at most once.
	Timeout    time.Duration  // Limit on each call to the Resolver.
	Trace      bool           // Log every machine step at debug level.
}

// T (engine) is a facade in front of the machinery for evaluating terms.
type T struct {
	ground *env.T
	log    *slog.Logger
	store  *store.Store
	task   task.Options
}

// New creates a new T with a ground env holding the primitives and prelude.
func New(o Options) *T {
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}

	s := store.New(store.Config{
		Logger:   log,
		Resolver: o.Resolver,
		Timeout:  o.Timeout,
	})

	e := &T{
		ground: env.New(nil),
		log:    log,
		store:  s,
		task: task.Options{
			Logger:     log,
			SingleShot: o.SingleShot,
			Store:      s,
			Trace:      o.Trace,
		},
	}

	task.Actions(e.ground)

	cs, err := reader.Read("boot", boot.Script())
	if err != nil {
		// The prelude is embedded. This should never happen.
		panic(err.Error())
	}

	for _, c := range cs {
		if _, err := e.Eval(context.Background(), c, e.ground); err != nil {
			panic(err.Error())
		}
	}

	e.log.Debug("ground env ready", "bindings", len(e.ground.Keys()))

	return e
}

// Eval evaluates the term c in the env in. The evaluation is delimited
// by a prompt with the default tag.
func (e *T) Eval(ctx context.Context, c cell.I, in *env.T) (cell.I, error) {
	return task.New(e.task, c, in).Run(ctx)
}

// EvalString reads the terms in text and evaluates each in the env in.
// It returns the value of the last term.
func (e *T) EvalString(ctx context.Context, name, text string, in *env.T) (cell.I, error) {
	cs, err := reader.Read(name, text)
	if err != nil {
		return nil, err
	}

	var v cell.I

	for _, c := range cs {
		v, err = e.Eval(ctx, c, in)
		if err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Intern adds the term c to the engine's store and returns its hash.
func (e *T) Intern(c cell.I) (ref.Hash, error) {
	return e.store.Intern(c)
}

// MakeGlobalEnvironment returns a new child of the ground env.
func (e *T) MakeGlobalEnvironment() *env.T {
	return env.New(e.ground)
}

// Resolve returns the term with hash h.
func (e *T) Resolve(ctx context.Context, h ref.Hash) (cell.I, error) {
	return e.store.Resolve(ctx, h)
}

// Store returns the engine's term store.
func (e *T) Store() *store.Store {
	return e.store
}
