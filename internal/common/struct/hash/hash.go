// Released under an MIT license. See LICENSE.

// Package hash provides softmacs's name to value mapping type.
package hash

import (
	"sort"
	"sync"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/reference"
	"github.com/michaelmacinnis/softmacs/internal/common/struct/slot"
)

// T (hash) maps names to values.
type T struct {
	sync.RWMutex
	m map[string]reference.I
}

type hash = T

// New creates a new hash.
func New() *hash {
	return &hash{m: map[string]reference.I{}}
}

// From creates a new hash holding a fresh slot for each entry in m.
func From(m map[string]cell.I) *hash {
	h := &hash{m: make(map[string]reference.I, len(m))}

	for k, v := range m {
		h.m[k] = slot.New(v)
	}

	return h
}

// Get retrieves the reference associated with the name k in the hash h.
func (h *hash) Get(k string) reference.I {
	if h == nil {
		return nil
	}

	h.RLock()
	defer h.RUnlock()

	return h.m[k]
}

// Keys returns the names in h in sorted order.
func (h *hash) Keys() []string {
	h.RLock()
	defer h.RUnlock()

	keys := make([]string, 0, len(h.m))
	for k := range h.m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Set associates the name k with the cell v in the hash h.
func (h *hash) Set(k string, v cell.I) {
	h.Lock()
	defer h.Unlock()

	h.m[k] = slot.New(v)
}
