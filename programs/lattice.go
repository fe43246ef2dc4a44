package programs

import _ "embed"

//go:embed shaders/lattice.frag
var latticeFragment string

func init() {
	register("lattice", latticeFragment)
}
