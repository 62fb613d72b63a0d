// Released under an MIT license. See LICENSE.

package commands

import (
	"math/big"

	"github.com/michaelmacinnis/softmacs/internal/common/fault"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/interface/rational"
	"github.com/michaelmacinnis/softmacs/internal/common/type/num"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/validate"
)

func add(args cell.I) cell.I {
	sum := &big.Rat{}

	for args != pair.Null {
		sum.Add(sum, rational.Number(pair.Car(args)))

		args = pair.Cdr(args)
	}

	return num.Rat(sum)
}

func div(args cell.I) cell.I {
	v, args := validate.Variadic(args, 1, 1)

	quotient := &big.Rat{}
	quotient.Set(rational.Number(v[0]))

	if args == pair.Null {
		divisor := quotient

		quotient = big.NewRat(1, 1)
		args = pair.Cons(num.Rat(divisor), pair.Null)
	}

	for args != pair.Null {
		divisor := rational.Number(pair.Car(args))
		if divisor.Sign() == 0 {
			fault.Shape(pair.Car(args), "division by zero")
		}

		quotient.Quo(quotient, divisor)

		args = pair.Cdr(args)
	}

	return num.Rat(quotient)
}

func mul(args cell.I) cell.I {
	product := big.NewRat(1, 1)

	for args != pair.Null {
		product.Mul(product, rational.Number(pair.Car(args)))

		args = pair.Cdr(args)
	}

	return num.Rat(product)
}

func sub(args cell.I) cell.I {
	v, args := validate.Variadic(args, 1, 1)

	difference := &big.Rat{}
	difference.Set(rational.Number(v[0]))

	if args == pair.Null {
		return num.Rat(difference.Neg(difference))
	}

	for args != pair.Null {
		difference.Sub(difference, rational.Number(pair.Car(args)))

		args = pair.Cdr(args)
	}

	return num.Rat(difference)
}
