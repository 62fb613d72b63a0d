// Released under an MIT license. See LICENSE.

// Package boot provides what is necessary for bootstrapping softmacs.
package boot

import _ "embed" // Blank import required by embed.

//go:embed boot.sm
var script string //nolint:gochecknoglobals

// Script returns the prelude evaluated into every ground env.
func Script() string {
	return script
}
