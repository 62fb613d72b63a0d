// Released under an MIT license. See LICENSE.

package task

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
)

// The registers type holds the state of softmacs's stack-based abstract
// machine. A *registers pushed as an operation is a restore operation.
// Its non-nil fields are copied back into the machine when it is performed.
//
// The stack and dump are persistent. Nodes are never changed once linked
// so that a captured segment can be replayed any number of times.
type registers struct {
	*stack
	env  *env.T
	code cell.I
	dump cell.I
}

// Perform copies non-nil fields from m to target.
func (m *registers) Perform(target *T) Op {
	m.restoreOver(target.registers)

	return target.PreviousOp()
}

// Op returns the abstract machine's current operation.
func (m *registers) Op() Op {
	return m.stack.op
}

// PopResult removes the top result from dump.
func (m *registers) PopResult() cell.I {
	r := pair.Car(m.dump)
	m.dump = pair.Cdr(m.dump)

	return r
}

// PushOp pushes a new operation onto the stack.
func (m *registers) PushOp(s Op) Op {
	current := toRegisters(s)
	previous := toRegisters(m.stack.op)

	if current != nil && previous != nil {
		// Condense restore operations. The earlier restore is performed
		// last so its fields win.
		merged := *current
		previous.restoreOver(&merged)

		m.stack = &stack{m.stack.stack, &merged}

		return &merged
	}

	m.stack = &stack{m.stack, s}

	return s
}

// PushResult adds the result r to dump.
func (m *registers) PushResult(r cell.I) {
	m.dump = pair.Cons(r, m.dump)
}

// PreviousOp pops the current operation and returns the previous operation.
func (m *registers) PreviousOp() Op {
	m.RemoveOp()

	return m.Op()
}

// RemoveOp pops the current operation off the stack.
func (m *registers) RemoveOp() {
	m.stack = m.stack.stack
}

// ReplaceOp replaces the operation at the top of the stack.
func (m *registers) ReplaceOp(s Op) Op {
	m.RemoveOp()

	return m.PushOp(s)
}

// Result returns the current result.
func (m *registers) Result() cell.I {
	return pair.Car(m.dump)
}

// The stack type is a machine's execution stack.
type stack struct {
	*stack
	op Op
}

//nolint:gochecknoglobals
var (
	done = &stack{}
)

// arguments collects results down to the nil that marks where they start.
func (m *registers) arguments() cell.I {
	e := m.PopResult()
	l := pair.Null

	for e != nil && m.dump != pair.Null {
		l = pair.Cons(e, l)

		e = m.PopResult()
	}

	return l
}

func (m *registers) restoreOver(target *registers) {
	if m.env != nil {
		target.env = m.env
	}

	if m.code != nil {
		target.code = m.code
	}

	if m.dump != nil {
		target.dump = m.dump
	}
}

func init() { //nolint:gochecknoinits
	done.stack = done
}

func toRegisters(s Op) *registers {
	if r, ok := s.(*registers); ok {
		return r
	}

	return nil
}
