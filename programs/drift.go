package programs

import _ "embed"

//go:embed shaders/drift.frag
var driftFragment string

func init() {
	register("drift", driftFragment)
}
