package engine

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/list"
	"github.com/michaelmacinnis/softmacs/internal/common/type/num"
	"github.com/michaelmacinnis/softmacs/internal/common/type/ref"
	"github.com/michaelmacinnis/softmacs/internal/reader"
	"github.com/michaelmacinnis/softmacs/internal/store/remote"
)

func check(t *testing.T, e *T, in *env.T, src, want string) {
	t.Helper()

	c, err := e.EvalString(context.Background(), t.Name(), src, in)
	if err != nil {
		t.Fatalf("%s: %v", src, err)
	}

	if got := literal.String(c); got != want {
		t.Fatalf("%s: expected %s, got %s", src, want, got)
	}
}

func read(t *testing.T, src string) cell.I {
	t.Helper()

	cs, err := reader.Read(t.Name(), src)
	if err != nil || len(cs) != 1 {
		t.Fatalf("%s: expected one term, got %v, %v", src, cs, err)
	}

	return cs[0]
}

func TestGlobalEnvironments(t *testing.T) {
	e := New(Options{})

	a := e.MakeGlobalEnvironment()
	b := e.MakeGlobalEnvironment()

	check(t, e, a, "(define x 1) x", "1")

	_, err := e.EvalString(context.Background(), "b", "x", b)
	if !errors.Is(err, fault.ErrUnboundSymbol) {
		t.Fatalf("expected %v, got %v", fault.ErrUnboundSymbol, err)
	}
}

func TestIntern(t *testing.T) {
	e := New(Options{})

	h, err := e.Intern(list.New(num.Int(1), num.Int(2)))
	if err != nil {
		t.Fatal(err)
	}

	check(t, e, e.MakeGlobalEnvironment(), "(car (cdr '@"+h.String()+"))", "2")
	check(t, e, e.MakeGlobalEnvironment(), "(equal? '@"+h.String()+" '(1 2))", "#t")

	c, err := e.Resolve(context.Background(), h)
	if err != nil || literal.String(c) != "(1 2)" {
		t.Fatalf("expected (1 2), got %v, %v", c, err)
	}
}

func TestPrelude(t *testing.T) {
	e := New(Options{})
	g := e.MakeGlobalEnvironment()

	check(t, e, g, "(let ((x 1) (y 2)) (+ x y))", "3")
	check(t, e, g, "(map (lambda (x) (* x x)) '(1 2 3))", "(1 4 9)")
	check(t, e, g, "(apply + '(1 2 3))", "6")
	check(t, e, g, "(when (< 1 2) 'a 'b)", "b")
	check(t, e, g, "(when #f 'a)", "#inert")
	check(t, e, g, "(unless #f 'c)", "c")
	check(t, e, g, "(eval '(define w 9) (get-current-environment)) w", "9")
	check(t, e, g, "(call-with-prompt 'p (lambda () (+ 1 (abort 'p 41))))", "41")
}

func TestRemoteResolve(t *testing.T) {
	served := New(Options{})

	srv := httptest.NewServer(remote.Handler(served.Store()))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := remote.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = c.Close() })

	h, err := served.Intern(list.New(num.Int(3), num.Int(4)))
	if err != nil {
		t.Fatal(err)
	}

	sum, err := served.Intern(read(t, "(+ 1 2)"))
	if err != nil {
		t.Fatal(err)
	}

	nums, err := served.Intern(read(t, "(1 2 3)"))
	if err != nil {
		t.Fatal(err)
	}

	e := New(Options{Resolver: c, Timeout: 5 * time.Second})
	g := e.MakeGlobalEnvironment()

	check(t, e, g, "(+ (car '@"+h.String()+") (car (cdr '@"+h.String()+")))", "7")
	check(t, e, g, "@"+sum.String(), "3")
	check(t, e, g, "(eval '@"+sum.String()+")", "3")
	check(t, e, g, "(length '@"+nums.String()+")", "3")
	check(t, e, g, "(map (lambda (x) (* x x)) '@"+nums.String()+")", "(1 4 9)")
}

func TestInternRuntimeTerms(t *testing.T) {
	e := New(Options{})
	g := e.MakeGlobalEnvironment()

	for _, src := range []string{
		"(intern (lambda (x) x))",
		"(intern (get-current-environment))",
		"(intern car)",
		"(intern default-prompt-tag)",
	} {
		c, err := e.EvalString(context.Background(), "intern", src, g)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}

		if !ref.Is(c) {
			t.Fatalf("%s: expected a reference, got %s", src, literal.String(c))
		}
	}

	check(t, e, g, "(define double (intern (lambda (x) (* x 2)))) (double 4)", "8")
	check(t, e, g, "(equal? (intern (lambda (x) x)) (intern (lambda (x) x)))", "#t")
}

func TestSingleShot(t *testing.T) {
	e := New(Options{SingleShot: true})

	_, err := e.EvalString(context.Background(), "k", "(reset (+ 1 (shift k (+ (k 1) (k 2)))))", e.MakeGlobalEnvironment())
	if !errors.Is(err, fault.ErrContinuationReused) {
		t.Fatalf("expected %v, got %v", fault.ErrContinuationReused, err)
	}
}
