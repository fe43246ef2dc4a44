package programs

import _ "embed"

//go:embed shaders/isolines.frag
var isolinesFragment string

func init() {
	register("isolines", isolinesFragment)
}
