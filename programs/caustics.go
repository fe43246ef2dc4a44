package programs

import _ "embed"

//go:embed shaders/caustics.frag
var causticsFragment string

func init() {
	register("caustics", causticsFragment)
}
