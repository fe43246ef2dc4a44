package render

import "github.com/go-gl/gl/v4.6-core/gl"

// Program is a linked visualization program. Uniform locations are
// looked up once at build time; a shader that never declares one of the
// standard uniforms simply has that upload skipped.
type Program struct {
	handle        uint32
	timeLoc       int32
	resolutionLoc int32
}

func (p *Program) Use() {
	gl.UseProgram(p.handle)
}

// SetTime uploads the playback clock, in seconds.
func (p *Program) SetTime(t float32) {
	if p.timeLoc >= 0 {
		gl.Uniform1f(p.timeLoc, t)
	}
}

// SetResolution uploads the drawable size, in pixels.
func (p *Program) SetResolution(w, h float32) {
	if p.resolutionLoc >= 0 {
		gl.Uniform2f(p.resolutionLoc, w, h)
	}
}

// Release frees the GL program. Safe to call more than once.
func (p *Program) Release() {
	if p.handle != 0 {
		gl.DeleteProgram(p.handle)
		p.handle = 0
	}
}
