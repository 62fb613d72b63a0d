// Released under an MIT license. See LICENSE.

// Package store provides softmacs's content-addressed term store.
package store

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/node"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/ref"
)

const shards = 256

// Config holds the collaborators and limits for a Store.
type Config struct {
	Logger   *slog.Logger
	Resolver Resolver      // Consulted when a hash is not held locally.
	Timeout  time.Duration // Bounds each call to Resolver. Zero is no bound.
}

// Corruption is the value a Store panics with when two different
// encodings share a hash.
type Corruption struct {
	Hash    ref.Hash
	Stored  []byte
	Offered []byte
}

// Error returns the text of the corruption c.
func (c *Corruption) Error() string {
	return fmt.Sprintf("store corruption: %s: %x != %x", c.Hash, c.Stored, c.Offered)
}

// Entry is a term held by a Store.
type Entry struct {
	Hash     ref.Hash
	Term     cell.I
	Encoding []byte
}

type entry struct {
	Entry
	count int
	refs  []ref.Hash
}

type shard struct {
	sync.RWMutex
	m map[ref.Hash]*entry
}

// Store maps hashes to terms. It is safe for concurrent use.
type Store struct {
	log      *slog.Logger
	resolver Resolver
	shards   [shards]shard
	timeout  time.Duration
}

// New creates a new, empty Store.
func New(c Config) *Store {
	s := &Store{
		log:      c.Logger,
		resolver: c.Resolver,
		timeout:  c.Timeout,
	}

	if s.log == nil {
		s.log = slog.Default()
	}

	for i := range s.shards {
		s.shards[i].m = map[ref.Hash]*entry{}
	}

	return s
}

// Intern adds c to the store, if it is not already present, and returns
// its hash. Each call holds one count on the entry. Children are interned
// before their parents, so each node is encoded once from the hashes of
// its children.
func (s *Store) Intern(c cell.I) (ref.Hash, error) {
	h, _, err := s.intern(c)

	return h, err
}

// intern returns the hash of c and a term with that hash. The term is c
// itself unless c reaches a runtime term, which is replaced by its frozen
// copy.
func (s *Store) intern(c cell.I) (ref.Hash, cell.I, error) {
	if r, ok := c.(*ref.T); ok {
		h := r.Hash()
		s.Retain(h)

		return h, c, nil
	}

	if pair.Is(c) {
		return s.list(c)
	}

	var children []cell.I

	if !Data(c) {
		// Runtime terms are held as frozen copies.
		c = env.Snapshot(c)

		if n, ok := c.(node.I); ok {
			children = n.Children()
		}
	}

	h, encoding, err := Sum(c)
	if err != nil {
		return h, nil, err
	}

	refs := make([]ref.Hash, 0, len(children))

	for _, child := range children {
		if !Data(child) {
			continue
		}

		ch, _, err := s.intern(child)
		if err != nil {
			s.release(refs)

			return h, nil, err
		}

		refs = append(refs, ch)
	}

	held := s.insert(h, encoding, c, refs)
	if Data(c) {
		return h, c, nil
	}

	return h, held, nil
}

// list interns the spine of c from its tail to its head.
func (s *Store) list(c cell.I) (ref.Hash, cell.I, error) {
	var spine []cell.I

	tail := c
	for pair.Is(tail) {
		spine = append(spine, tail)
		tail = pair.Cdr(tail)
	}

	h, term, err := s.intern(tail)
	if err != nil {
		return h, nil, err
	}

	for i := len(spine) - 1; i >= 0; i-- {
		p := spine[i]

		ch, car, err := s.intern(pair.Car(p))
		if err != nil {
			s.Release(h)

			return ch, nil, err
		}

		if car != pair.Car(p) || term != pair.Cdr(p) {
			p = pair.Cons(car, term)
		}

		encoding := Pair(ch, h)
		ph := ref.Hash(blake2b.Sum256(encoding))

		s.insert(ph, encoding, p, []ref.Hash{ch, h})

		term = p
		h = ph
	}

	return h, term, nil
}

// Len returns the number of entries in the store.
func (s *Store) Len() int {
	n := 0

	for i := range s.shards {
		sh := &s.shards[i]

		sh.RLock()
		n += len(sh.m)
		sh.RUnlock()
	}

	return n
}

// Lookup returns the entry for h if it is held locally.
func (s *Store) Lookup(h ref.Hash) (Entry, bool) {
	sh := s.shard(h)

	sh.RLock()
	defer sh.RUnlock()

	e, ok := sh.m[h]
	if !ok {
		return Entry{}, false
	}

	return e.Entry, true
}

// Release drops one count on the entry for h. An entry without counts is
// removed and releases its children.
func (s *Store) Release(h ref.Hash) {
	s.release([]ref.Hash{h})
}

// Resolve returns the term with hash h. Terms not held locally are
// requested from the configured Resolver and, once verified, kept.
func (s *Store) Resolve(ctx context.Context, h ref.Hash) (cell.I, error) {
	if e, ok := s.Lookup(h); ok {
		return e.Term, nil
	}

	if s.resolver == nil {
		return nil, fault.New(fault.UnresolvedReference, ref.New(h), "not held locally")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.log.Debug("resolving", "hash", h.String())

	c, err := s.resolver.Resolve(ctx, h)
	if err != nil {
		s.log.Debug("resolve failed", "hash", h.String(), "error", err)

		return nil, fault.Wrap(fault.UnresolvedReference, ref.New(h), err)
	}

	got, _, err := Sum(c)
	if err != nil {
		return nil, fault.Wrap(fault.UnresolvedReference, ref.New(h), err)
	}

	if got != h {
		return nil, fault.New(fault.UnresolvedReference, ref.New(h), "resolved to "+got.String())
	}

	_, term, err := s.intern(c)
	if err != nil {
		return nil, fault.Wrap(fault.UnresolvedReference, ref.New(h), err)
	}

	s.log.Debug("cached", "hash", h.String())

	return term, nil
}

// Retain adds one count to the entry for h, if it is held locally.
func (s *Store) Retain(h ref.Hash) {
	sh := s.shard(h)

	sh.Lock()
	defer sh.Unlock()

	if e, ok := sh.m[h]; ok {
		e.count++
	}
}

// insert holds one count on the entry for h and returns its term. A new
// entry takes over the counts held on refs. Otherwise they are dropped.
func (s *Store) insert(h ref.Hash, encoding []byte, term cell.I, refs []ref.Hash) cell.I {
	sh := s.shard(h)
	sh.Lock()

	e, ok := sh.m[h]
	if !ok {
		sh.m[h] = &entry{
			Entry: Entry{Hash: h, Term: term, Encoding: encoding},
			count: 1,
			refs:  refs,
		}
		sh.Unlock()

		return term
	}

	e.count++
	sh.Unlock()

	s.release(refs)
	check(e, encoding)

	return e.Term
}

func (s *Store) release(refs []ref.Hash) {
	pending := append([]ref.Hash(nil), refs...)

	for len(pending) > 0 {
		h := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		sh := s.shard(h)
		sh.Lock()

		e, ok := sh.m[h]
		if !ok {
			sh.Unlock()

			continue
		}

		e.count--
		if e.count > 0 {
			sh.Unlock()

			continue
		}

		delete(sh.m, h)
		sh.Unlock()

		pending = append(pending, e.refs...)
	}
}

func (s *Store) shard(h ref.Hash) *shard {
	return &s.shards[h[0]]
}

func check(e *entry, encoding []byte) {
	if !bytes.Equal(e.Encoding, encoding) {
		panic(&Corruption{Hash: e.Hash, Stored: e.Encoding, Offered: encoding})
	}
}
