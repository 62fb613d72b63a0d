// Released under an MIT license. See LICENSE.

package task

import (
	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/node"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/special"
	"github.com/michaelmacinnis/softmacs/internal/common/type/sym"
	"github.com/michaelmacinnis/softmacs/internal/common/validate"
)

// Default is the tag of the prompt that delimits every evaluation and of
// the prompts installed by reset and shift.
//
//nolint:gochecknoglobals
var Default cell.I = &defaultTag{}

type defaultTag struct{}

// Children returns nothing. The tag is identified by its label.
func (t *defaultTag) Children() []cell.I {
	return nil
}

func (t *defaultTag) Equal(c cell.I) bool {
	return cell.I(t) == c
}

func (t *defaultTag) Kind() byte {
	return node.Constant
}

func (t *defaultTag) Label() string {
	return "default-prompt-tag"
}

func (t *defaultTag) Literal() string {
	return "#[default-prompt-tag]"
}

func (t *defaultTag) Name() string {
	return "prompt-tag"
}

// A prompt delimits the part of the stack that can be captured. It
// remembers the dump and the most recent env serial number at the point
// where it was pushed.
type prompt struct {
	dump   cell.I
	serial uint64
	tag    cell.I
}

// Perform passes the value of the delimited region on to the previous
// operation.
func (p *prompt) Perform(t *T) Op {
	return t.PreviousOp()
}

// abort unwinds to the nearest prompt with a matching tag. The value is
// returned from the prompt.
//
//	(abort value)
//	(abort tag value)
func abort(t *T) Op {
	v := validate.Fixed(t.code, 1, 2)

	tag, value := Default, v[0]
	if len(v) == 2 { //nolint:gomnd
		tag, value = v[0], v[1]
	}

	t.unwind(t.find(t.stack, tag))

	t.PushResult(value)

	return t.Op()
}

// capture returns the continuation from the capture to the nearest prompt
// with a matching tag. Nothing is unwound.
//
//	(capture)
//	(capture tag)
func capture(t *T) Op {
	v := validate.Fixed(t.code, 0, 1)

	tag := Default
	if len(v) == 1 {
		tag = v[0]
	}

	below := t.stack.stack

	k := t.capture(below, t.find(below, tag))

	return t.Return(&Applicative{underlying: k})
}

// invoke resumes the continuation k with the value v.
//
//	(invoke k v)
func invoke(t *T) Op {
	v := validate.Fixed(t.code, 1, 2)

	c := t.force(v[0])
	if a, ok := c.(*Applicative); ok {
		c = a.Unwrap()
	}

	k, ok := c.(*Continuation)
	if !ok {
		fault.Shape(v[0], "expected a continuation")
	}

	t.code = pair.Cdr(t.code)

	return k.Combine(t)
}

// pushPrompt evaluates the tag and then the body under a prompt with that tag.
//
//	(push-prompt tag body...)
func pushPrompt(t *T) Op {
	validate.Variadic(t.code, 1, 1)
	validate.Proper(t.code)

	t.ReplaceOp(Action(execPushPrompt))
	t.PushOp(&registers{code: pair.Cdr(t.code)})

	t.code = pair.Car(t.code)

	return t.PushOp(Action(evalElement))
}

// execPushPrompt installs the prompt.
//
// Result:
//
//	code:  Body
//	stack: evalBlock Prompt Restore(env: Current) Previous ...
//
// Requires:
//
//	code:  Body
//	dump:  Tag ...
//	stack: execPushPrompt Previous ...
func execPushPrompt(t *T) Op {
	return t.delimit(t.PopResult())
}

// reset evaluates the body under a prompt with the Default tag.
//
//	(reset body...)
func reset(t *T) Op {
	t.code = validate.Proper(t.code)

	return t.delimit(Default)
}

// shift captures the continuation to the nearest Default prompt, unwinds
// to it, and then evaluates the body, with k bound to the continuation,
// under a new Default prompt.
//
//	(shift k body...)
func shift(t *T) Op {
	v, body := validate.Variadic(t.code, 1, 1)

	label := v[0]
	if label != special.Ignore && !sym.Is(label) {
		fault.Shape(label, "expected a symbol or #ignore")
	}

	below := t.stack.stack
	p := t.find(below, Default)

	k := t.capture(below, p)

	e := env.New(t.env)
	if label != special.Ignore {
		e.Define(sym.To(label).String(), &Applicative{underlying: k})
	}

	t.unwind(p)
	t.PushOp(&prompt{dump: t.dump, serial: env.Serial(), tag: Default})

	t.env = e
	t.code = validate.Proper(body)

	return t.PushOp(Action(evalBlock))
}

// capture copies the stack from the node top down to and including the
// prompt node p, and the dump down to the prompt's dump.
func (t *T) capture(top, p *stack) *Continuation {
	delimiter := toPrompt(p.op)

	k := &Continuation{
		code:   t.code,
		env:    t.env,
		serial: delimiter.serial,
		tag:    delimiter.tag,
	}

	for d := t.dump; d != delimiter.dump; d = pair.Cdr(d) {
		if d == pair.Null {
			panic(fault.New(fault.Internal, nil, "dump does not extend to the prompt"))
		}

		k.dump = append(k.dump, pair.Car(d))
	}

	for s := top; ; s = s.stack {
		depth := 0

		if inner := toPrompt(s.op); inner != nil {
			for d := inner.dump; d != delimiter.dump && d != pair.Null; d = pair.Cdr(d) {
				depth++
			}
		}

		k.depth = append(k.depth, depth)
		k.ops = append(k.ops, s.op)

		if s == p {
			break
		}
	}

	t.log.Debug("captured", "ops", len(k.ops), "results", len(k.dump))

	return k
}

// delimit installs a prompt with the tag and evaluates the body in code.
func (t *T) delimit(tag cell.I) Op {
	t.ReplaceOp(&registers{env: t.env})
	t.PushOp(&prompt{dump: t.dump, serial: env.Serial(), tag: tag})

	return t.PushOp(Action(evalBlock))
}

// find returns the stack node for the nearest prompt with the tag.
func (t *T) find(s *stack, tag cell.I) *stack {
	for ; s != done; s = s.stack {
		if p := toPrompt(s.op); p != nil && p.tag.Equal(tag) {
			return s
		}
	}

	panic(fault.New(fault.NoActivePrompt, tag, ""))
}

// prompted returns true if there is at least one prompt on the stack.
func (t *T) prompted() bool {
	for s := t.stack; s != done; s = s.stack {
		if toPrompt(s.op) != nil {
			return true
		}
	}

	return false
}

// unwind discards everything above the prompt node p, and the prompt.
func (t *T) unwind(p *stack) {
	t.dump = toPrompt(p.op).dump
	t.stack = p.stack
}

func toPrompt(o Op) *prompt {
	if p, ok := o.(*prompt); ok {
		return p
	}

	return nil
}
