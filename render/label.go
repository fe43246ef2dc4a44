package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/go-gl/gl/v4.6-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelVertex = `#version 460 core

in vec2 vert;

uniform vec2 u_origin;
uniform vec2 u_extent;

out vec2 texCoord;

void main() {
    texCoord = vec2(vert.x, 1.0 - vert.y);
    gl_Position = vec4(u_origin + vert * u_extent, 0.0, 1.0);
}
`

const labelFragment = `#version 460 core

in vec2 texCoord;

uniform sampler2D u_glyphs;

out vec4 outputColor;

void main() {
    outputColor = texture(u_glyphs, texCoord);
}
`

const (
	labelPadX   = 10
	labelPadY   = 6
	labelMargin = 24
	labelScale  = 2
)

// Label draws a short line of text over the frame, for windows that
// have no widget toolkit to lean on. Text is rasterized on the CPU with
// a bitmap face and blended in as a texture.
type Label struct {
	program   uint32
	originLoc int32
	extentLoc int32

	vao uint32
	vbo uint32
	tex uint32

	texW, texH int
	visible    bool
	hasText    bool
}

func NewLabel() (*Label, error) {
	program, err := linkProgram(labelVertex, labelFragment)
	if err != nil {
		return nil, err
	}

	l := &Label{
		program:   program,
		originLoc: gl.GetUniformLocation(program, gl.Str("u_origin\x00")),
		extentLoc: gl.GetUniformLocation(program, gl.Str("u_extent\x00")),
	}

	gl.UseProgram(program)
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("u_glyphs\x00")), 0)

	verts := []float32{
		0, 0,
		1, 0,
		1, 1,

		0, 0,
		1, 1,
		0, 1,
	}

	gl.GenVertexArrays(1, &l.vao)
	gl.BindVertexArray(l.vao)
	gl.GenBuffers(1, &l.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	attrib := gl.GetAttribLocation(program, gl.Str("vert\x00"))
	if attrib >= 0 {
		gl.EnableVertexAttribArray(uint32(attrib))
		gl.VertexAttribPointerWithOffset(uint32(attrib), 2, gl.FLOAT, false, 2*4, 0)
	}

	gl.GenTextures(1, &l.tex)
	gl.BindTexture(gl.TEXTURE_2D, l.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return l, nil
}

// SetText rasterizes text onto a dark backing strip and uploads it.
func (l *Label) SetText(text string) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil() + 2*labelPadX
	h := face.Height + 2*labelPadY

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 170}), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{235, 235, 235, 255}),
		Face: face,
		Dot:  fixed.P(labelPadX, labelPadY+face.Ascent),
	}
	d.DrawString(text)

	gl.BindTexture(gl.TEXTURE_2D, l.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	l.texW, l.texH = w, h
	l.hasText = true
}

func (l *Label) SetVisible(v bool) {
	l.visible = v
}

// Draw blends the label into the bottom-left corner of the drawable.
func (l *Label) Draw(screenW, screenH int) {
	if !l.visible || !l.hasText || screenW < 1 || screenH < 1 {
		return
	}

	ox := -1 + 2*float32(labelMargin)/float32(screenW)
	oy := -1 + 2*float32(labelMargin)/float32(screenH)
	ex := 2 * float32(l.texW*labelScale) / float32(screenW)
	ey := 2 * float32(l.texH*labelScale) / float32(screenH)

	gl.UseProgram(l.program)
	gl.Uniform2f(l.originLoc, ox, oy)
	gl.Uniform2f(l.extentLoc, ex, ey)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, l.tex)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.BindVertexArray(l.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.Disable(gl.BLEND)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (l *Label) Release() {
	if l.tex != 0 {
		gl.DeleteTextures(1, &l.tex)
		l.tex = 0
	}
	if l.vbo != 0 {
		gl.DeleteBuffers(1, &l.vbo)
		l.vbo = 0
	}
	if l.vao != 0 {
		gl.DeleteVertexArrays(1, &l.vao)
		l.vao = 0
	}
	if l.program != 0 {
		gl.DeleteProgram(l.program)
		l.program = 0
	}
}
