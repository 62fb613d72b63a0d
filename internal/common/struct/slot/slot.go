// Released under an MIT license. See LICENSE.

// Package slot provides softmacs's mutable binding cell.
package slot

import (
	"sync"

	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/reference"
)

// T (slot) holds a cell value. Each slot has its own lock.
type T struct {
	sync.RWMutex
	c cell.I
}

type slot = T

// New creates a new slot with the cell c.
func New(c cell.I) *slot {
	return &slot{c: c}
}

// Get returns the cell in slot s.
func (s *slot) Get() cell.I {
	s.RLock()
	defer s.RUnlock()

	return s.c
}

// Set replaces the cell in slot s with the cell c.
func (s *slot) Set(c cell.I) {
	s.Lock()
	defer s.Unlock()

	s.c = c
}

// A compiler-checked list of interfaces this type satisfies. Never called.
func implements() { //nolint:deadcode,unused
	var t slot

	// The slot type is a mutable binding.
	_ = reference.I(&t)
}
