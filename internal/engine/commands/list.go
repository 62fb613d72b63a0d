// Released under an MIT license. See LICENSE.

package commands

import (
	"github.com/michaelmacinnis/softmacs/internal/common/interface/cell"
	"github.com/michaelmacinnis/softmacs/internal/common/type/list"
	"github.com/michaelmacinnis/softmacs/internal/common/type/num"
	"github.com/michaelmacinnis/softmacs/internal/common/validate"
)

func appendLists(args cell.I) cell.I {
	return list.Join(list.Slice(args)...)
}

func length(args cell.I) cell.I {
	v := validate.Fixed(args, 1, 1)

	return num.Int(int(list.Length(validate.Proper(v[0]))))
}

func makeList(args cell.I) cell.I {
	return args
}

func reverse(args cell.I) cell.I {
	v := validate.Fixed(args, 1, 1)

	return list.Reverse(validate.Proper(v[0]))
}
