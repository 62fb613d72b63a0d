// Released under an MIT license. See LICENSE.

// Package ref provides softmacs's content reference type. A content
// reference names another term by the hash of its structure.
package ref

import (
	"encoding/hex"
	"errors"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
)

const name = "reference"

// Size is the length of a hash in bytes.
const Size = 32

// Hash is the content hash of a term.
type Hash [Size]byte

// ErrHash is returned when text cannot be parsed as a hash.
var ErrHash = errors.New("malformed hash") //nolint:gochecknoglobals

// Parse converts the hex text s to a hash.
func Parse(s string) (Hash, error) {
	var h Hash

	if len(s) != 2*Size {
		return h, ErrHash
	}

	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, ErrHash
	}

	return h, nil
}

// String returns the lowercase hex text of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// T (ref) is a lazily resolved reference to the term with hash h.
type T struct {
	h Hash
}

type ref = T

// New creates a reference to the term with hash h.
func New(h Hash) cell.I {
	return &ref{h}
}

// Equal returns true if c is a reference to the same hash.
func (r *ref) Equal(c cell.I) bool {
	return Is(c) && To(c).h == r.h
}

// Hash returns the referenced hash.
func (r *ref) Hash() Hash {
	return r.h
}

// Literal returns the literal representation of the ref r.
func (r *ref) Literal() string {
	return "@" + r.h.String()
}

// Name returns the type name for the ref r.
func (r *ref) Name() string {
	return name
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t ref

	// The ref type is a cell.
	_ = cell.I(&t)

	// The ref type has a literal representation.
	_ = literal.I(&t)
}
