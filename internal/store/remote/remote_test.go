// Released under an MIT license. See LICENSE.

package remote

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/type/list"
	"github.com/michaelmacinnis/softmacs/internal/common/type/num"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/ref"
	"github.com/michaelmacinnis/softmacs/internal/common/type/str"
	"github.com/michaelmacinnis/softmacs/internal/store"
)

func setup(t *testing.T) (*store.Store, *Client) {
	t.Helper()

	served := store.New(store.Config{})

	srv := httptest.NewServer(Handler(served))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = c.Close() })

	return served, c
}

func TestResolve(t *testing.T) {
	served, c := setup(t)

	term := list.New(num.Int(1), str.New("one"))

	h, err := served.Intern(term)
	if err != nil {
		t.Fatal(err)
	}

	local := store.New(store.Config{Resolver: c, Timeout: 5 * time.Second})

	got, err := local.Resolve(context.Background(), h)
	if err != nil {
		t.Fatal(err)
	}

	// The children of a transferred pair arrive as references.
	car, err := local.Resolve(context.Background(), ref.To(pair.Car(got)).Hash())
	if err != nil {
		t.Fatal(err)
	}

	if !car.Equal(num.Int(1)) {
		t.Fatalf("expected 1, got %v", car)
	}
}

func TestNotFound(t *testing.T) {
	_, c := setup(t)

	local := store.New(store.Config{Resolver: c, Timeout: 5 * time.Second})

	_, err := local.Resolve(context.Background(), ref.Hash{})
	if !errors.Is(err, fault.ErrUnresolvedReference) {
		t.Fatalf("expected UnresolvedReference, got %v", err)
	}

	// The connection is still usable after an error reply.
	if _, err = c.Resolve(context.Background(), ref.Hash{1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReconnect(t *testing.T) {
	served, c := setup(t)

	h, err := served.Intern(num.Int(5))
	if err != nil {
		t.Fatal(err)
	}

	expired, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()

	<-expired.Done()

	if _, err = c.Resolve(expired, h); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	got, err := c.Resolve(context.Background(), h)
	if err != nil {
		t.Fatal(err)
	}

	if !got.Equal(num.Int(5)) {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestClosed(t *testing.T) {
	_, c := setup(t)

	_ = c.Close()

	if _, err := c.Resolve(context.Background(), ref.Hash{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
