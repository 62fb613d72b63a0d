// Released under an MIT license. See LICENSE.

// Package cell defines the interface for all softmacs terms.
package cell

// I (cell) is the basic unit of storage in softmacs. Every term, combiner,
// environment and continuation is a cell.
type I interface {
	Equal(c I) bool
	Name() string
}
