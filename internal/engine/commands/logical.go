// Released under an MIT license. See LICENSE.

package commands

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/boolean"
	"github.com/michaelmacinnis/softmacs/internal/common/validate"
)

func not(args cell.I) cell.I {
	v := validate.Fixed(args, 1, 1)

	return boolean.Bool(!boolean.Truth(v[0]))
}
