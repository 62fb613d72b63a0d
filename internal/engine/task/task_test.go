package task

import (
	"context"
	"errors"
	"testing"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/list"
	"github.com/michaelmacinnis/softmacs/internal/common/type/num"
	"github.com/michaelmacinnis/softmacs/internal/reader/lexer"
	"github.com/michaelmacinnis/softmacs/internal/reader/parser"
	"github.com/michaelmacinnis/softmacs/internal/store"
)

func ground() *env.T {
	e := env.New(nil)

	Actions(e)

	return e
}

func terms(t *testing.T, src string) []cell.I {
	t.Helper()

	l := lexer.New(t.Name())
	l.Scan(src + "\n")

	var cs []cell.I

	err := parser.New(func(c cell.I) {
		cs = append(cs, c)
	}, l.Token).Parse()
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}

	return cs
}

func run(t *testing.T, o Options, e *env.T, src string) (cell.I, error) {
	t.Helper()

	var (
		c   cell.I
		err error
	)

	for _, term := range terms(t, src) {
		c, err = New(o, term, e).Run(context.Background())
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

func check(t *testing.T, e *env.T, src, want string) {
	t.Helper()

	c, err := run(t, Options{}, e, src)
	if err != nil {
		t.Fatalf("%s: %v", src, err)
	}

	if got := literal.String(c); got != want {
		t.Fatalf("%s: expected %s, got %s", src, want, got)
	}
}

func fails(t *testing.T, o Options, e *env.T, src string, target error) {
	t.Helper()

	_, err := run(t, o, e, src)
	if !errors.Is(err, target) {
		t.Fatalf("%s: expected %v, got %v", src, target, err)
	}
}

func TestAbort(t *testing.T) {
	e := ground()

	check(t, e, "(+ 1 (reset (+ 10 (abort 5))))", "6")
	check(t, e, "(push-prompt 'p (+ 1 (push-prompt 'q (+ 10 (abort 'p 5)))))", "5")
	fails(t, Options{}, e, "(abort 'nowhere 1)", fault.ErrNoActivePrompt)
}

func TestAndOr(t *testing.T) {
	e := ground()

	check(t, e, "(and)", "#t")
	check(t, e, "(or)", "#f")
	check(t, e, "(and 1 2 3)", "3")
	check(t, e, "(and 1 #f 3)", "#f")
	check(t, e, "(or #f 2 3)", "2")
	check(t, e, "(or #f #f)", "#f")

	// Operands after the one that decides are not evaluated.
	check(t, e, "(define n 0) (and #f (set! n 1)) (or 1 (set! n 2)) n", "0")
	fails(t, Options{}, e, "(and 1 . 2)", fault.ErrArityOrShape)
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := terms(t, "(+ 1 2)")[0]

	_, err := New(Options{}, c, ground()).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCaptureAndInvoke(t *testing.T) {
	e := ground()

	check(t, e, `
		(define k
		  (push-prompt 'p
		    ((lambda (v) (if (number? v) (+ 1 v) v)) (capture 'p))))
		(list (invoke k 41) (k 1))`, "(42 2)")
}

func TestDefine(t *testing.T) {
	e := ground()

	check(t, e, "(define (add a b) (+ a b)) (add 2 3)", "5")
	check(t, e, "(define (rest . xs) xs) (rest 1 2 3)", "(1 2 3)")
	check(t, e, "(define x 1)", "#inert")
	check(t, e, "(set! x 2) x", "2")
	fails(t, Options{}, e, "(set! undefined-name 2)", fault.ErrUnboundSymbol)
}

func TestDefineDoesNotLeak(t *testing.T) {
	e0 := ground()
	e1 := env.Extend(e0, map[string]cell.I{"x": num.Int(5)})

	check(t, e1, "x", "5")
	check(t, e1, "(define y 10) y", "10")
	fails(t, Options{}, e0, "y", fault.ErrUnboundSymbol)
}

func TestEval(t *testing.T) {
	e := ground()

	check(t, e, "(eval '(+ 1 2))", "3")
	check(t, e, "(define f (make-environment ((vau () e e)))) (eval '(define z 7) f) (eval 'z f)", "7")
	fails(t, Options{}, e, "z", fault.ErrUnboundSymbol)
}

func TestIntern(t *testing.T) {
	e := ground()
	o := Options{Store: store.New(store.Config{})}

	c, err := run(t, o, e, "(equal? (intern '(1 2)) (intern (list 1 2)))")
	if err != nil || literal.String(c) != "#t" {
		t.Fatalf("expected #t, got %v, %v", c, err)
	}

	c, err = run(t, o, e, "(car (resolve (intern '(a b))))")
	if err != nil || literal.String(c) != "a" {
		t.Fatalf("expected a, got %v, %v", c, err)
	}

	c, err = run(t, o, e, "(cdr (intern '(a b)))")
	if err != nil || literal.String(c) != "(b)" {
		t.Fatalf("expected (b), got %v, %v", c, err)
	}

	_, err = run(t, Options{}, e, "(intern 1)")
	if !errors.Is(err, fault.ErrNotInternable) {
		t.Fatalf("expected %v, got %v", fault.ErrNotInternable, err)
	}
}

func TestReferenceTransparency(t *testing.T) {
	e := ground()
	s := store.New(store.Config{})
	o := Options{Store: s}

	h, err := s.Intern(list.New(num.Int(1), num.Int(2)))
	if err != nil {
		t.Fatal(err)
	}

	at := "'@" + h.String()

	for src, want := range map[string]string{
		"(+ . @" + h.String() + ")":      "3",
		"(length " + at + ")":            "2",
		"(reverse " + at + ")":           "(2 1)",
		"(append " + at + " '(3))":       "(1 2 3)",
		"(equal? " + at + " '(1 2))":     "#t",
		"(pair? " + at + ")":             "#t",
		"(null? (cdr (cdr " + at + ")))": "#t",
	} {
		c, err := run(t, o, e, src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}

		if got := literal.String(c); got != want {
			t.Fatalf("%s: expected %s, got %s", src, want, got)
		}
	}
}

func TestDecodedTerm(t *testing.T) {
	s := store.New(store.Config{})

	h, err := s.Intern(terms(t, "(+ 1 (* 2 3))")[0])
	if err != nil {
		t.Fatal(err)
	}

	held, _ := s.Lookup(h)

	// A decoded pair holds its children as references.
	c, err := store.Decode(held.Encoding)
	if err != nil {
		t.Fatal(err)
	}

	v, err := New(Options{Store: s}, c, ground()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if got := literal.String(v); got != "7" {
		t.Fatalf("expected 7, got %s", got)
	}
}

func TestMultiShot(t *testing.T) {
	e := ground()

	check(t, e, "(reset (+ 1 (shift k (+ (k 1) (k 2)))))", "5")
	check(t, e, `
		(reset
		  ((lambda (x)
		     (begin
		       (define y (shift k (list (k 1) (k 10))))
		       (set! x (+ x y))
		       x))
		   100))`, "(101 110)")
}

func TestNotCombinable(t *testing.T) {
	fails(t, Options{}, ground(), "(1 2)", fault.ErrNotCombinable)
}

func TestSelfEvaluating(t *testing.T) {
	e := ground()

	for _, s := range []string{"1", "1/2", `"text"`, "#t", "#f", "#inert", "#ignore", "()"} {
		check(t, e, s, s)
	}
}

func TestShift(t *testing.T) {
	e := ground()

	check(t, e, "(reset (+ 1 (shift k (k (k 3)))))", "5")
	check(t, e, "(+ 1 (reset (+ 10 (shift #ignore 2))))", "3")
	check(t, e, "(shift k (k 1))", "1")
}

func TestSingleShot(t *testing.T) {
	e := ground()
	o := Options{SingleShot: true}

	c, err := run(t, o, e, "(reset (+ 1 (shift k (k 2))))")
	if err != nil || literal.String(c) != "3" {
		t.Fatalf("expected 3, got %v, %v", c, err)
	}

	fails(t, o, e, "(reset (+ 1 (shift k (+ (k 1) (k 2)))))", fault.ErrContinuationReused)
}

// deepest runs src in e and returns the most operations seen on the
// stack, sampled every 1000 steps.
func deepest(t *testing.T, e *env.T, src, want string) int {
	t.Helper()

	task := New(Options{}, terms(t, src)[0], e)

	most := 0

	var err error

	s := task.Op()
	for n := 0; s != nil; n++ {
		if n%1000 == 0 {
			depth := 0
			for p := task.stack; p != done; p = p.stack {
				depth++
			}

			if depth > most {
				most = depth
			}
		}

		s, err = task.Step(s)
		if err != nil {
			t.Fatal(err)
		}
	}

	if got := literal.String(task.Result()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	return most
}

func TestTailLoop(t *testing.T) {
	e := ground()

	check(t, e, "(define (loop n) (if (= n 0) 'done (loop (- n 1))))", "#inert")

	if most := deepest(t, e, "(loop 1000000)", "done"); most > 32 {
		t.Fatalf("stack grew to %d operations", most)
	}
}

func TestOperativeTailLoop(t *testing.T) {
	e := ground()

	check(t, e, `
		(define my-if
		  (vau (test consequent alternative) env
		    (if (eval test env) (eval consequent env) (eval alternative env))))
		(define (loop n) (my-if (= n 0) 'done (loop (- n 1))))`, "#inert")

	if most := deepest(t, e, "(loop 1000000)", "done"); most > 32 {
		t.Fatalf("stack grew to %d operations", most)
	}
}

func TestUnbound(t *testing.T) {
	_, err := run(t, Options{}, ground(), "(+ 1 nowhere)")

	var f *fault.T
	if !errors.As(err, &f) || f.Kind != fault.UnboundSymbol || literal.String(f.Term) != "nowhere" {
		t.Fatalf("expected unbound symbol nowhere, got %v", err)
	}
}

func TestUserIf(t *testing.T) {
	e := ground()

	check(t, e, `
		(define my-if
		  (vau (test consequent alternative) e
		    (if (eval test e) (eval consequent e) (eval alternative e))))
		(define hits 0)
		(define misses 0)
		(my-if (< 1 2) (set! hits (+ hits 1)) (set! misses (+ misses 1)))
		(my-if #f (set! misses (+ misses 1)) (set! hits (+ hits 1)))
		(list hits misses)`, "(2 0)")
}
