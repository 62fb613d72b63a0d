// Released under an MIT license. See LICENSE.

// Package commands provides the library applicatives. Each command takes
// its evaluated operands as a list and returns a value.
package commands

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
)

// Functions returns the library applicatives by name.
func Functions() map[string]func(cell.I) cell.I {
	return map[string]func(cell.I) cell.I{
		"*":        mul,
		"+":        add,
		"-":        sub,
		"/":        div,
		"<":        lt,
		"<=":       le,
		"=":        numeq,
		">":        gt,
		">=":       ge,
		"append":   appendLists,
		"boolean?": isBoolean,
		"eq?":      eq,
		"equal?":   equal,
		"length":   length,
		"list":     makeList,
		"not":      not,
		"null?":    isNull,
		"number?":  isNumber,
		"pair?":    isPair,
		"reverse":  reverse,
		"string?":  isString,
		"symbol?":  isSymbol,
	}
}

// Walks returns true if the command name walks the structure of its
// arguments rather than just their values.
func Walks(name string) bool {
	switch name {
	case "append", "equal?", "length", "reverse":
		return true
	}

	return false
}
