package lexer

import (
	"strings"
	"testing"

	"github.com/michaelmacinnis/softmacs/internal/common/struct/token"
)

type expected struct {
	class token.Class
	value string
	line  int
	char  int
}

type harness struct {
	lexer *T
	t     *testing.T
}

func setup(t *testing.T, label string) *harness {
	return &harness{lexer: New(label), t: t}
}

func (h *harness) expect(tokens ...*expected) {
	for _, e := range tokens {
		a := h.lexer.Token()

		switch {
		case a == nil && e == nil:
			continue
		case a == nil:
			h.t.Fatalf("Expected %q but there are no tokens", e.value)
		case e == nil:
			h.t.Fatalf("Expected no tokens; got %v", a)
		case !a.Is(e.class) || a.Value() != e.value:
			h.t.Fatalf("Expected %q; got %v", e.value, a)
		case a.Source().Line != e.line || a.Source().Char != e.char:
			h.t.Fatalf("Expected %q at %d:%d; got %v", e.value, e.line, e.char, a)
		}
	}
}

func (h *harness) scan(s string, tokens ...*expected) {
	h.lexer.Scan(s)
	h.expect(tokens...)
}

func punct(r rune, line, char int) *expected {
	return &expected{token.Class(r), string(r), line, char}
}

func symbol(s string, line, char int) *expected {
	return &expected{token.Symbol, s, line, char}
}

func TestComment(t *testing.T) {
	h := setup(t, "Comment")

	h.scan("; (ignored)\n'x\n",
		punct('\'', 2, 1),
		symbol("x", 2, 2),
		nil,
	)
}

func TestList(t *testing.T) {
	h := setup(t, "List")

	h.scan("(+ 1 2)\n",
		punct('(', 1, 1),
		symbol("+", 1, 2),
		symbol("1", 1, 4),
		symbol("2", 1, 6),
		punct(')', 1, 7),
		nil,
	)
}

func TestManyParens(t *testing.T) {
	h := setup(t, "ManyParens")

	n := 40

	h.lexer.Scan(strings.Repeat("(", n) + "\n")

	for i := 1; i <= n; i++ {
		h.expect(punct('(', 1, i))
	}

	h.expect(nil)
}

func TestPartial(t *testing.T) {
	h := setup(t, "Partial")

	h.scan("(foo",
		punct('(', 1, 1),
		nil,
	)

	if !h.lexer.Partial() {
		t.Fatal("Expected a partial token")
	}

	h.scan(" bar)\n",
		symbol("foo", 1, 2),
		symbol("bar", 1, 6),
		punct(')', 1, 9),
		nil,
	)

	if h.lexer.Partial() {
		t.Fatal("Expected no partial token")
	}
}

func TestString(t *testing.T) {
	h := setup(t, "String")

	h.scan(`"a\"b" x`+"\n",
		&expected{token.String, `"a\"b"`, 1, 1},
		symbol("x", 1, 8),
		nil,
	)
}

func TestStringAcrossLines(t *testing.T) {
	h := setup(t, "StringAcrossLines")

	h.scan(`"one`+"\n", nil)
	h.scan(`two"`+"\n",
		&expected{token.String, "\"one\ntwo\"", 1, 1},
		nil,
	)
}
