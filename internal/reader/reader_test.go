package reader

import (
	"errors"
	"testing"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
)

func TestContinuedLine(t *testing.T) {
	r := New("test")
	defer r.Close()

	cs, err := r.Scan("(+ 1\n")
	if err != nil || len(cs) != 0 {
		t.Fatalf("expected nothing yet, got %v, %v", cs, err)
	}

	if !r.Partial() {
		t.Fatal("expected a partial term")
	}

	cs, err = r.Scan("2) 3\n")
	if err != nil {
		t.Fatal(err)
	}

	if len(cs) != 2 || literal.String(cs[0]) != "(+ 1 2)" || literal.String(cs[1]) != "3" {
		t.Fatalf("unexpected terms %v", cs)
	}

	if r.Partial() {
		t.Fatal("expected no partial term")
	}
}

func TestRecovery(t *testing.T) {
	r := New("test")
	defer r.Close()

	_, err := r.Scan(") x\n")
	if !errors.Is(err, fault.ErrSyntax) {
		t.Fatalf("expected a syntax error, got %v", err)
	}

	cs, err := r.Scan("y\n")
	if err != nil || len(cs) != 1 || literal.String(cs[0]) != "y" {
		t.Fatalf("expected y, got %v, %v", cs, err)
	}
}

func TestRead(t *testing.T) {
	cs, err := Read("test", "(a b) 'c")
	if err != nil || len(cs) != 2 {
		t.Fatalf("expected two terms, got %v, %v", cs, err)
	}

	if _, err = Read("test", "(a b"); !errors.Is(err, fault.ErrSyntax) {
		t.Fatalf("expected a syntax error, got %v", err)
	}
}

func TestUnterminatedString(t *testing.T) {
	for _, text := range []string{`"abc`, `(a b) "c d`} {
		if cs, err := Read("test", text); !errors.Is(err, fault.ErrSyntax) {
			t.Errorf("%s: expected a syntax error, got %v, %v", text, cs, err)
		}
	}

	cs, err := Read("test", "\"a\nb\"")
	if err != nil || len(cs) != 1 {
		t.Fatalf("expected one string, got %v, %v", cs, err)
	}
}
