// Released under an MIT license. See LICENSE.

package store

import (
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/blake2b"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/node"
	"github.com/michaelmacinnis/softmacs/internal/common/type/boolean"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/num"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/ref"
	"github.com/michaelmacinnis/softmacs/internal/common/type/special"
	"github.com/michaelmacinnis/softmacs/internal/common/type/str"
	"github.com/michaelmacinnis/softmacs/internal/common/type/sym"
)

//nolint:gochecknoglobals
var (
	// ErrEncoding is returned when an encoding cannot be decoded.
	ErrEncoding = errors.New("malformed encoding")

	// ErrNoResolver is returned by an empty chain of resolvers.
	ErrNoResolver = errors.New("no resolver")
)

// Sum returns the hash and canonical encoding of c.
// A content reference sums to the hash it holds and has no encoding.
func Sum(c cell.I) (h ref.Hash, encoding []byte, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		f, ok := r.(*fault.T)
		if !ok {
			panic(r)
		}

		err = f
	}()

	h, encoding = newHasher().sum(c)

	return h, encoding, nil
}

// Data returns true if c is an atom, a pair or a content reference.
func Data(c cell.I) bool {
	switch {
	case c == pair.Null, pair.Is(c), ref.Is(c):
		return true
	case boolean.Is(c), num.Is(c), str.Is(c), sym.Is(c):
		return true
	case c == special.Inert, c == special.Ignore:
		return true
	}

	return false
}

// Decode returns the term encoded by encoding. The children of a pair are
// returned as content references.
func Decode(encoding []byte) (cell.I, error) {
	tag, label, children, err := split(encoding)
	if err != nil {
		return nil, err
	}

	leaf := func(c cell.I) (cell.I, error) {
		if len(children) != 0 {
			return nil, ErrEncoding
		}

		return c, nil
	}

	switch tag {
	case node.Null:
		return leaf(pair.Null)

	case node.Boolean:
		switch label {
		case "t":
			return leaf(boolean.True)
		case "f":
			return leaf(boolean.False)
		}

	case node.Symbol:
		return leaf(sym.New(label))

	case node.String:
		return leaf(str.New(label))

	case node.Number:
		if n, ok := num.Parse(label); ok {
			return leaf(n)
		}

	case node.Pair:
		if len(children) == 2 { //nolint:gomnd
			return pair.Cons(ref.New(children[0]), ref.New(children[1])), nil
		}

	case node.Inert:
		return leaf(special.Inert)

	case node.Ignore:
		return leaf(special.Ignore)
	}

	return nil, ErrEncoding
}

// Pair returns the canonical encoding of a pair with the given children.
func Pair(car, cdr ref.Hash) []byte {
	return encode(node.Pair, "", []ref.Hash{car, cdr})
}

func encode(tag byte, label string, children []ref.Hash) []byte {
	b := make([]byte, 0, 1+2*binary.MaxVarintLen64+len(label)+len(children)*ref.Size)

	b = append(b, tag)
	b = binary.AppendUvarint(b, uint64(len(label)))
	b = append(b, label...)
	b = binary.AppendUvarint(b, uint64(len(children)))

	for _, h := range children {
		b = append(b, h[:]...)
	}

	return b
}

func split(b []byte) (tag byte, label string, children []ref.Hash, err error) {
	if len(b) == 0 {
		return 0, "", nil, ErrEncoding
	}

	tag = b[0]
	b = b[1:]

	n, w := binary.Uvarint(b)
	if w <= 0 || uint64(len(b)-w) < n {
		return 0, "", nil, ErrEncoding
	}

	label = string(b[w : w+int(n)])
	b = b[w+int(n):]

	n, w = binary.Uvarint(b)
	if w <= 0 || n > uint64(len(b)) || uint64(len(b)-w) != n*ref.Size {
		return 0, "", nil, ErrEncoding
	}

	b = b[w:]

	children = make([]ref.Hash, n)
	for i := range children {
		copy(children[i][:], b[i*ref.Size:])
	}

	return tag, label, children, nil
}

type hasher struct {
	envs []*env.T
	memo map[cell.I]ref.Hash
}

func newHasher() *hasher {
	return &hasher{memo: map[cell.I]ref.Hash{}}
}

func (h *hasher) hash(c cell.I) ref.Hash {
	v, _ := h.sum(c)

	return v
}

// Hashes computed outside of any env do not depend on their context and
// are remembered for the rest of the call.
func (h *hasher) sum(c cell.I) (ref.Hash, []byte) {
	if r, ok := c.(*ref.T); ok {
		return r.Hash(), nil
	}

	free := len(h.envs) == 0
	if free {
		if v, ok := h.memo[c]; ok {
			return v, nil
		}
	}

	if pair.Is(c) {
		return h.list(c, free)
	}

	tag, label, children := h.structure(c)

	hashes := make([]ref.Hash, len(children))
	for i, child := range children {
		hashes[i] = h.hash(child)
	}

	if tag == node.Environment {
		h.envs = h.envs[:len(h.envs)-1]
	}

	encoding := encode(tag, label, hashes)
	v := ref.Hash(blake2b.Sum256(encoding))

	if free {
		h.memo[c] = v
	}

	return v, encoding
}

// list walks the spine of c without recursing on the cdr. Each pair is
// summed from the hash of its car and the hash of the pair after it.
func (h *hasher) list(c cell.I, free bool) (ref.Hash, []byte) {
	var spine []cell.I

	tail := c
	for pair.Is(tail) {
		if _, ok := h.memo[tail]; ok && free {
			break
		}

		spine = append(spine, tail)
		tail = pair.Cdr(tail)
	}

	v := h.hash(tail)

	var encoding []byte

	for i := len(spine) - 1; i >= 0; i-- {
		encoding = Pair(h.hash(pair.Car(spine[i])), v)
		v = ref.Hash(blake2b.Sum256(encoding))

		if free {
			h.memo[spine[i]] = v
		}
	}

	return v, encoding
}

// The structure of an env is only visited while the env is on the path
// stack. A reference to an env already on the stack becomes a back
// reference to its position.
func (h *hasher) structure(c cell.I) (byte, string, []cell.I) {
	switch {
	case c == pair.Null:
		return node.Null, "", nil

	case c == special.Inert:
		return node.Inert, "", nil

	case c == special.Ignore:
		return node.Ignore, "", nil

	case boolean.Is(c):
		if boolean.To(c).Bool() {
			return node.Boolean, "t", nil
		}

		return node.Boolean, "f", nil

	case sym.Is(c):
		return node.Symbol, sym.To(c).String(), nil

	case str.Is(c):
		return node.String, str.To(c).String(), nil

	case num.Is(c):
		return node.Number, num.To(c).Rat().RatString(), nil
	}

	if e, ok := c.(*env.T); ok {
		for i := len(h.envs) - 1; i >= 0; i-- {
			if h.envs[i] == e {
				d := uint64(len(h.envs) - 1 - i)

				return node.Backref, string(binary.AppendUvarint(nil, d)), nil
			}
		}

		h.envs = append(h.envs, e)
	}

	if n, ok := c.(node.I); ok {
		return n.Kind(), n.Label(), n.Children()
	}

	panic(fault.New(fault.NotInternable, c, "no canonical encoding"))
}
