// Released under an MIT license. See LICENSE.

/*
Softmacs is an evaluator for a small language of first-class environments,
operatives and delimited continuations, with terms that can be named by the
hash of their structure.

	(define (loop n) (if (= n 0) 'done (loop (- n 1))))
	(loop 1000000)
	(reset (+ 1 (shift k (k (k 3)))))
	(intern '(1 2 3))

References printed as @<hash> can be read back. References not held
locally are requested from the remote store named by --remote.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
	"github.com/michaelmacinnis/softmacs/internal/engine"
	"github.com/michaelmacinnis/softmacs/internal/store"
	"github.com/michaelmacinnis/softmacs/internal/store/remote"
	"github.com/michaelmacinnis/softmacs/internal/system/options"
	"github.com/michaelmacinnis/softmacs/internal/ui"
)

func main() {
	if err := options.Parse(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	slog.SetDefault(options.Logger())

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var resolver store.Resolver

	if url := options.Remote(); url != "" {
		c, err := remote.Dial(ctx, url)
		if err != nil {
			return err
		}
		defer c.Close()

		resolver = c
	}

	e := engine.New(engine.Options{
		Logger:     slog.Default(),
		Resolver:   resolver,
		SingleShot: options.SingleShot(),
		Timeout:    options.Timeout(),
		Trace:      options.Trace(),
	})

	if addr := options.Listen(); addr != "" {
		go serve(addr, e.Store())
	}

	g := e.MakeGlobalEnvironment()

	if command := options.Command(); command != "" {
		v, err := e.EvalString(ctx, "command", command, g)
		if err != nil {
			return err
		}

		fmt.Println(literal.String(v))

		return nil
	}

	for _, path := range options.Scripts() {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if _, err = e.EvalString(ctx, path, string(b), g); err != nil {
			return err
		}
	}

	if len(options.Scripts()) > 0 {
		return nil
	}

	if options.Interactive() {
		return ui.Run(ctx, e, g)
	}

	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}

	_, err = e.EvalString(ctx, "stdin", string(b), g)

	return err
}

func serve(addr string, s *store.Store) {
	mux := http.NewServeMux()
	mux.Handle("/store", remote.Handler(s))

	slog.Info("serving store", "address", addr)

	//nolint:gosec
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("store server stopped", "error", err)
	}
}
