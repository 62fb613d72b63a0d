// Released under an MIT license. See LICENSE.

package task

import (
	"reflect"
	"runtime"
	"strings"
)

// Op represents a single step of a task.
type Op interface {
	Perform(*T) Op
}

func opString(o Op) string {
	switch o := o.(type) {
	case nil:
		return "<nil>"

	case Action:
		return funcName(o)

	case *prompt:
		return "Prompt"

	case *registers:
		fields := []string{}

		if o.code != nil {
			fields = append(fields, "code")
		}

		if o.dump != nil {
			fields = append(fields, "dump")
		}

		if o.env != nil {
			fields = append(fields, "env")
		}

		return "Restore(" + strings.Join(fields, ", ") + ")"
	}

	return "<unknown>"
}

// Get the function i's name. Useful for debugging.
func funcName(i interface{}) string {
	n := runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()

	a := strings.Split(n, ".")

	l := len(a)
	if l == 0 {
		return n
	}

	return a[l-1]
}
