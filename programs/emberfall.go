package programs

import _ "embed"

//go:embed shaders/emberfall.frag
var emberfallFragment string

func init() {
	register("emberfall", emberfallFragment)
}
