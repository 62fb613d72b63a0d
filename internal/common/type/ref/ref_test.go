// Released under an MIT license. See LICENSE.

package ref

import (
	"testing"
)

func TestParse(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(i)
	}

	p, err := Parse(h.String())
	if err != nil {
		t.Fatal(err)
	}

	if p != h {
		t.Fatalf("expected %s, got %s", h, p)
	}

	for _, s := range []string{"", "00", h.String()[1:] + "g"} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestEqual(t *testing.T) {
	var a, b Hash
	b[0] = 1

	if !New(a).Equal(New(a)) {
		t.Fatal("references to the same hash should be equal")
	}

	if New(a).Equal(New(b)) {
		t.Fatal("references to different hashes should not be equal")
	}
}
