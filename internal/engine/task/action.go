// Released under an MIT license. See LICENSE.

package task

import (
	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/literal"
	"github.com/michaelmacinnis/softmacs/internal/common/type/boolean"
	"github.com/michaelmacinnis/softmacs/internal/common/type/env"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/type/ref"
	"github.com/michaelmacinnis/softmacs/internal/common/type/special"
	"github.com/michaelmacinnis/softmacs/internal/common/type/sym"
	"github.com/michaelmacinnis/softmacs/internal/common/validate"
	"github.com/michaelmacinnis/softmacs/internal/engine/commands"
)

// Action performs a single step of the machine and returns the next operation.
type Action func(*T) Op

// Perform is required for an action to be an operation.
func (a Action) Perform(t *T) Op {
	return a(t)
}

// Actions associates the primitive combiners with names in the env e.
func Actions(e *env.T) {
	// Operatives.
	for k, v := range map[string]Action{
		"and":         and,
		"begin":       begin,
		"define":      define,
		"if":          evalIf,
		"lambda":      lambda,
		"or":          or,
		"push-prompt": pushPrompt,
		"quote":       quote,
		"reset":       reset,
		"set!":        set,
		"shift":       shift,
		"vau":         vau,
	} {
		e.Define(k, operative(k, v))
	}

	// Applicatives.
	for k, v := range map[string]Action{
		"abort":            abort,
		"capture":          capture,
		"car":              car,
		"cdr":              cdr,
		"cons":             cons,
		"eval":             eval,
		"intern":           intern,
		"invoke":           invoke,
		"make-environment": makeEnvironment,
		"resolve":          resolve,
		"unwrap":           unwrap,
		"wrap":             wrap,
	} {
		e.Define(k, applicative(k, v))
	}

	for k, v := range commands.Functions() {
		e.Define(k, function(k, v, commands.Walks(k)))
	}

	e.Define("default-prompt-tag", Default)
}

// Actions.

// evalElement evaluates the term in code.
//
// Result:
//
//	code:  <undefined>
//	dump:  Value ...
//	stack: Previous ...
//
// Requires:
//
//	code:  Term
//	dump:  ...
//	stack: evalElement Previous ...
//
// If the term is a combination (a pair), the head is evaluated first:
//
//	code:  Head
//	dump:  ...
//	stack: evalElement Restore(code: Operand_0 ... Operand_N) execCombine Previous ...
//
// Symbols are looked up. Content references are resolved and the term
// they refer to is evaluated. Everything else evaluates to itself.
func evalElement(t *T) Op {
	switch c := t.code.(type) {
	case *sym.T:
		r := t.env.Lookup(c.String())
		if r == nil {
			panic(fault.New(fault.UnboundSymbol, c, ""))
		}

		return t.Return(r.Get())

	case *ref.T:
		t.code = t.resolve(c.Hash())

		return t.Op()

	case *pair.T:
		if c == pair.Null {
			break
		}

		t.ReplaceOp(Action(execCombine))
		t.PushOp(&registers{code: pair.Cdr(c)})

		t.code = pair.Car(c)

		return t.PushOp(Action(evalElement))
	}

	return t.Return(t.code)
}

// evalArgs evaluates operands in the list pointed to by code.
//
// Result:
//
//	code:  <undefined>
//	dump:  Value_N ... Value_0 nil ...
//	stack: Previous ...
//
// Requires:
//
//	code:  Operand_i ...
//	dump:  Value_i-1 ... Value_0 nil ...
//	stack: evalArgs Previous ...
//
// While there are operands to be evaluated, the next operation for
// evalArgs is evalElement. If the current operand is the last operand
// evalArgs removes itself and does not push a restore operation. This
// allows the final evalElement to return directly to the previous op.
func evalArgs(t *T) Op {
	if t.code == pair.Null {
		return t.PreviousOp()
	}

	next := pair.Cdr(t.code)
	if next == pair.Null {
		t.RemoveOp()
	} else {
		t.PushOp(&registers{code: next})
	}

	t.code = pair.Car(t.code)

	return t.PushOp(Action(evalElement))
}

// evalBlock evaluates each term in the list pointed to by code. The value
// of the last term is the value of the block. The last term is evaluated
// in place of the block.
//
// Result:
//
//	code:  Term_i
//	stack: evalElement discard Restore(code: Term_i+1 ...) evalBlock Previous ...
//	       or, for the last term,
//	stack: evalElement Previous ...
//
// Requires:
//
//	code:  Term_i ...
//	stack: evalBlock Previous ...
//
// An empty block evaluates to #inert.
func evalBlock(t *T) Op {
	if t.code == pair.Null {
		return t.Return(special.Inert)
	}

	current := pair.Car(t.code)

	next := pair.Cdr(t.code)
	if next == pair.Null {
		t.RemoveOp()
	} else {
		t.PushOp(&registers{code: next})
		t.PushOp(Action(discard))
	}

	t.code = current

	return t.PushOp(Action(evalElement))
}

// execArgs collects the values produced by evalArgs into code.
//
// Result:
//
//	code:  Value_0 ... Value_N
//	dump:  ...
//	stack: Previous ...
//
// Requires:
//
//	dump:  Value_N ... Value_0 nil ...
//	stack: execArgs Previous ...
func execArgs(t *T) Op {
	t.code = t.arguments()

	return t.PreviousOp()
}

// execCombine uses the value from evaluating the head of a combination to
// determine how to combine it with the operands. Content references on the
// spine of the operand list are resolved first.
//
// Requires:
//
//	code:  Operand_0 ... Operand_N
//	dump:  Head ...
//	stack: execCombine Previous ...
func execCombine(t *T) Op {
	head := t.force(t.PopResult())

	c, ok := head.(combiner)
	if !ok {
		panic(fault.New(fault.NotCombinable, head, ""))
	}

	t.code = t.walk(t.code, false)

	return c.Combine(t)
}

func discard(t *T) Op {
	t.PopResult()

	return t.PreviousOp()
}

// Operatives.

// and evaluates its operands in turn until one is #f. The value is that #f
// or, in place of the and, the value of the last operand. With no operands
// the value is #t.
//
//	(and test...)
func and(t *T) Op {
	return connective(t, boolean.True, Action(evalAnd))
}

func evalAnd(t *T) Op {
	return evalConnective(t, Action(execAnd))
}

func execAnd(t *T) Op {
	v := t.PopResult()
	if !boolean.Truth(v) {
		return t.Return(v)
	}

	return t.ReplaceOp(Action(evalAnd))
}

// or evaluates its operands in turn until one is not #f. The value is that
// value or, in place of the or, the value of the last operand. With no
// operands the value is #f.
//
//	(or test...)
func or(t *T) Op {
	return connective(t, boolean.False, Action(evalOr))
}

func evalOr(t *T) Op {
	return evalConnective(t, Action(execOr))
}

func execOr(t *T) Op {
	v := t.PopResult()
	if boolean.Truth(v) {
		return t.Return(v)
	}

	return t.ReplaceOp(Action(evalOr))
}

func connective(t *T, empty cell.I, next Action) Op {
	t.code = validate.Proper(t.code)
	if t.code == pair.Null {
		return t.Return(empty)
	}

	return t.ReplaceOp(next)
}

// evalConnective evaluates the first operand in code with exec waiting for
// its value. The last operand is evaluated in place of the connective.
//
// Result:
//
//	code:  Operand_0
//	stack: evalElement Restore(code: Operand_1 ...) exec Previous ...
//	       or, for the last operand,
//	stack: evalElement Previous ...
func evalConnective(t *T, exec Action) Op {
	rest := pair.Cdr(t.code)
	if rest == pair.Null {
		t.code = pair.Car(t.code)

		return t.ReplaceOp(Action(evalElement))
	}

	t.ReplaceOp(exec)
	t.PushOp(&registers{code: rest})

	t.code = pair.Car(t.code)

	return t.PushOp(Action(evalElement))
}

func begin(t *T) Op {
	t.code = validate.Proper(t.code)

	return t.ReplaceOp(Action(evalBlock))
}

// define evaluates its second operand and binds the first to the value in
// the innermost frame of the calling env.
//
//	(define name expression)
//	(define (name . parameters) body...)
func define(t *T) Op {
	v, body := validate.Variadic(t.code, 2, 2)

	k := v[0]
	if pair.Is(k) {
		name := pair.Car(k)
		if !sym.Is(name) {
			fault.Shape(name, "expected a symbol")
		}

		checkParams(pair.Cdr(k))

		t.env.Define(literal.String(name), lambdaOver(t.env, pair.Cdr(k), pair.Cons(v[1], body)))

		return t.Return(special.Inert)
	}

	if !sym.Is(k) {
		fault.Shape(k, "expected a symbol")
	}

	if body != pair.Null {
		fault.Shape(t.code, "expected 2 operands")
	}

	t.ReplaceOp(Action(execDefine))
	t.PushResult(k)

	t.code = v[1]

	return t.PushOp(Action(evalElement))
}

func execDefine(t *T) Op {
	v := t.PopResult()
	k := t.PopResult()

	t.env.Define(literal.String(k), v)

	return t.Return(special.Inert)
}

// evalIf evaluates its first operand and then, in place of the if, one of
// the others. Only #f is false. Without an alternative the value is #inert.
//
//	(if test consequent [alternative])
func evalIf(t *T) Op {
	validate.Fixed(t.code, 2, 3)

	t.ReplaceOp(Action(execIf))
	t.PushOp(&registers{code: t.code})

	t.code = pair.Car(t.code)

	return t.PushOp(Action(evalElement))
}

func execIf(t *T) Op {
	branches := pair.Cdr(t.code)

	if !boolean.Truth(t.PopResult()) {
		branches = pair.Cdr(branches)
		if branches == pair.Null {
			return t.Return(special.Inert)
		}
	}

	t.code = pair.Car(branches)

	return t.ReplaceOp(Action(evalElement))
}

func lambda(t *T) Op {
	v, body := validate.Variadic(t.code, 1, 1)

	checkParams(v[0])

	return t.Return(lambdaOver(t.env, v[0], validate.Proper(body)))
}

func quote(t *T) Op {
	v := validate.Fixed(t.code, 1, 1)

	return t.Return(v[0])
}

func set(t *T) Op {
	v := validate.Fixed(t.code, 2, 2)

	if !sym.Is(v[0]) {
		fault.Shape(v[0], "expected a symbol")
	}

	t.ReplaceOp(Action(execSet))
	t.PushResult(v[0])

	t.code = v[1]

	return t.PushOp(Action(evalElement))
}

func execSet(t *T) Op {
	v := t.PopResult()
	k := t.PopResult()

	if !t.env.Set(literal.String(k), v) {
		panic(fault.New(fault.UnboundSymbol, k, ""))
	}

	return t.Return(special.Inert)
}

// vau creates an operative that closes over the calling env.
//
//	(vau parameters env-parameter body...)
func vau(t *T) Op {
	v, body := validate.Variadic(t.code, 2, 2)

	checkParams(v[0])

	envp := v[1]
	if envp != special.Ignore && !sym.Is(envp) {
		fault.Shape(envp, "expected a symbol or #ignore")
	}

	return t.Return(&Operative{
		body:   validate.Proper(body),
		envp:   envp,
		params: v[0],
		static: t.env,
	})
}

// Applicatives.

func car(t *T) Op {
	v := validate.Fixed(t.code, 1, 1)

	return t.Return(t.force(pair.Car(t.toPair(v[0]))))
}

func cdr(t *T) Op {
	v := validate.Fixed(t.code, 1, 1)

	return t.Return(t.force(pair.Cdr(t.toPair(v[0]))))
}

func cons(t *T) Op {
	v := validate.Fixed(t.code, 2, 2)

	return t.Return(pair.Cons(v[0], v[1]))
}

// eval evaluates its first operand in place of the eval. The env is the
// second operand or, if there is none, the calling env.
func eval(t *T) Op {
	v := validate.Fixed(t.code, 1, 2)

	e := t.env
	if len(v) == 2 { //nolint:gomnd
		e = env.To(t.force(v[1]))
	}

	t.ReplaceOp(&registers{env: t.env})

	t.env = e
	t.code = v[0]

	return t.PushOp(Action(evalElement))
}

func intern(t *T) Op {
	v := validate.Fixed(t.code, 1, 1)

	if t.store == nil {
		panic(fault.New(fault.NotInternable, v[0], "no store"))
	}

	h, err := t.store.Intern(v[0])
	if err != nil {
		panic(err)
	}

	return t.Return(ref.New(h))
}

func makeEnvironment(t *T) Op {
	v := validate.Fixed(t.code, 0, 1)

	var parent *env.T
	if len(v) == 1 {
		parent = env.To(t.force(v[0]))
	}

	return t.Return(env.New(parent))
}

func resolve(t *T) Op {
	v := validate.Fixed(t.code, 1, 1)

	return t.Return(t.force(v[0]))
}

func unwrap(t *T) Op {
	v := validate.Fixed(t.code, 1, 1)

	a, ok := t.force(v[0]).(*Applicative)
	if !ok {
		fault.Shape(v[0], "expected an applicative")
	}

	return t.Return(a.Unwrap())
}

func wrap(t *T) Op {
	v := validate.Fixed(t.code, 1, 1)

	c, ok := t.force(v[0]).(combiner)
	if !ok {
		fault.Shape(v[0], "expected a combiner")
	}

	return t.Return(&Applicative{underlying: c})
}

// Adapters.

func applicative(name string, a Action) *Applicative {
	return &Applicative{underlying: operative(name, a)}
}

// function adapts a command. Content references among the arguments are
// resolved. For a command that walks its arguments, so are the references
// anywhere inside them.
func function(name string, do func(args cell.I) cell.I, walks bool) *Applicative {
	return applicative(name, func(t *T) Op {
		if walks {
			return t.Return(do(t.walk(t.code, true)))
		}

		return t.Return(do(t.forceEach(t.code)))
	})
}

func operative(name string, a Action) *Primitive {
	return &Primitive{name: name, op: a}
}

// Helpers.

// checkParams panics if p is not a parameter tree.
func checkParams(p cell.I) {
	switch {
	case p == special.Ignore, p == pair.Null, sym.Is(p):
		return

	case pair.Is(p):
		checkParams(pair.Car(p))
		checkParams(pair.Cdr(p))

	default:
		fault.Shape(p, "malformed parameter tree")
	}
}

func lambdaOver(e *env.T, params, body cell.I) *Applicative {
	return &Applicative{underlying: &Operative{
		body:   body,
		envp:   special.Ignore,
		params: params,
		static: e,
	}}
}

func (t *T) toPair(c cell.I) cell.I {
	c = t.force(c)
	if !pair.Is(c) {
		fault.Shape(c, "expected a pair")
	}

	return c
}
