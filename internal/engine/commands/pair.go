// Released under an MIT license. See LICENSE.

package commands

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/boolean"
	"github.com/michaelmacinnis/softmacs/internal/common/type/pair"
	"github.com/michaelmacinnis/softmacs/internal/common/validate"
)

func isNull(args cell.I) cell.I {
	v := validate.Fixed(args, 1, 1)

	return boolean.Bool(v[0] == pair.Null)
}

func isPair(args cell.I) cell.I {
	v := validate.Fixed(args, 1, 1)

	return boolean.Bool(pair.Is(v[0]))
}
