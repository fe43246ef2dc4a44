// Package render owns the OpenGL side of the viewer: program
// construction, the fullscreen quad, and the offscreen surface frames
// are drawn into.
package render

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/stewi1014/glbackdrop/programs"
)

// ErrContextUnavailable reports that no usable OpenGL context could be
// brought up.
var ErrContextUnavailable = errors.New("OpenGL context unavailable")

// Init loads the GL function pointers for the current context.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}
	return nil
}

// CompileError carries the driver's log for a shader that would not
// compile.
type CompileError struct {
	Stage string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %v shader: %v", e.Stage, e.Log)
}

// LinkError carries the driver's log for a program that would not link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link program: %v", e.Log)
}

// Builder turns fragment source into Programs. Each program is linked
// against the shared vertex stage and wired to the quad's vertex layout.
// Build must run with the GL context current.
type Builder struct {
	vertex string
	quad   *Quad
}

func NewBuilder(quad *Quad) *Builder {
	return &Builder{
		vertex: programs.VertexSource(),
		quad:   quad,
	}
}

func (b *Builder) Build(fragment string) (*Program, error) {
	handle, err := linkProgram(b.vertex, fragment)
	if err != nil {
		return nil, err
	}

	p := &Program{
		handle:        handle,
		timeLoc:       gl.GetUniformLocation(handle, gl.Str("u_time\x00")),
		resolutionLoc: gl.GetUniformLocation(handle, gl.Str("u_resolution\x00")),
	}

	// each program's attribute index can differ, so the quad layout is
	// re-pointed at every build
	b.quad.Bind()
	attrib := gl.GetAttribLocation(handle, gl.Str("vert\x00"))
	if attrib >= 0 {
		gl.EnableVertexAttribArray(uint32(attrib))
		gl.VertexAttribPointerWithOffset(uint32(attrib), 2, gl.FLOAT, false, 2*4, 0)
	}

	return p, nil
}

// linkProgram compiles both stages and links them, freeing every GL
// object it created if any step fails.
func linkProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, err
	}

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vert)
	gl.AttachShader(handle, frag)
	gl.BindFragDataLocation(handle, 0, gl.Str("outputColor\x00"))
	gl.LinkProgram(handle)

	// attached shaders are freed along with the program
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &l)

		infoLog := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(handle, l, nil, gl.Str(infoLog))
		gl.DeleteProgram(handle)
		return 0, &LinkError{Log: trimLog(infoLog)}
	}

	return handle, nil
}

func compileShader(source string, stage uint32) (uint32, error) {
	defer runtime.KeepAlive(source)
	csource, free := gl.Strs(source + "\x00")
	defer free()

	shader := gl.CreateShader(stage)
	gl.ShaderSource(shader, 1, csource, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)

		infoLog := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(shader, l, nil, gl.Str(infoLog))
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stageName(stage), Log: trimLog(infoLog)}
	}

	return shader, nil
}

func stageName(stage uint32) string {
	switch stage {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	default:
		return fmt.Sprintf("stage(0x%x)", stage)
	}
}

func trimLog(l string) string {
	return strings.TrimRight(l, "\x00\n\t ")
}
