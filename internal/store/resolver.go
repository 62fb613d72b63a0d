// Released under an MIT license. See LICENSE.

package store

import (
	"context"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/ref"
)

// Resolver finds terms that are not held locally.
type Resolver interface {
	Resolve(ctx context.Context, h ref.Hash) (cell.I, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, h ref.Hash) (cell.I, error)

// Resolve calls f(ctx, h).
func (f ResolverFunc) Resolve(ctx context.Context, h ref.Hash) (cell.I, error) {
	return f(ctx, h)
}

// Chain returns a Resolver that tries each resolver in turn.
func Chain(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(ctx context.Context, h ref.Hash) (cell.I, error) {
		var err error

		for _, r := range resolvers {
			var c cell.I

			c, err = r.Resolve(ctx, h)
			if err == nil {
				return c, nil
			}

			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}

		if err == nil {
			err = ErrNoResolver
		}

		return nil, err
	})
}
