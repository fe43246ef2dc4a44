package programs

import _ "embed"

//go:embed shaders/pulse.frag
var pulseFragment string

func init() {
	register("pulse", pulseFragment)
}
