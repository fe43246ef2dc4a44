package render

import (
	"image"
	"math"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// Surface is the offscreen buffer visualizations render into. It tracks
// the window at a capped pixel density: past maxScale device pixels per
// logical pixel, rendering stays at the cap and the result is stretched
// into place. Fill rate on dense displays is the whole cost of this app.
type Surface struct {
	fbo      uint32
	tex      uint32
	maxScale float64

	width  int32
	height int32

	savedFBO int32
}

func NewSurface(maxScale float64) *Surface {
	if maxScale <= 0 {
		maxScale = 1
	}

	s := &Surface{maxScale: maxScale}
	gl.GenFramebuffers(1, &s.fbo)
	gl.GenTextures(1, &s.tex)
	return s
}

// Resize follows the drawable to targetW x targetH pixels at the given
// device scale, reallocating the buffer when the capped size changes.
func (s *Surface) Resize(targetW, targetH int, scale float64) {
	f := 1.0
	if scale > s.maxScale {
		f = s.maxScale / scale
	}

	w := int32(math.Round(float64(targetW) * f))
	h := int32(math.Round(float64(targetH) * f))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h

	gl.BindTexture(gl.TEXTURE_2D, s.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, s.tex, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Size is the allocated pixel size, which is what the resolution
// uniform reports.
func (s *Surface) Size() (int, int) {
	return int(s.width), int(s.height)
}

// Begin redirects drawing into the surface. The previous draw
// framebuffer is remembered; under GTK that is the GLArea's own
// buffer, never 0.
func (s *Surface) Begin() {
	gl.GetIntegerv(gl.DRAW_FRAMEBUFFER_BINDING, &s.savedFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, s.fbo)
	gl.Viewport(0, 0, s.width, s.height)
}

// Resolve stretches the surface onto the framebuffer that was bound at
// Begin and leaves that framebuffer bound.
func (s *Surface) Resolve(targetW, targetH int) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, s.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, uint32(s.savedFBO))
	gl.BlitFramebuffer(
		0, 0, s.width, s.height,
		0, 0, int32(targetW), int32(targetH),
		gl.COLOR_BUFFER_BIT, gl.LINEAR,
	)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(s.savedFBO))
	gl.Viewport(0, 0, int32(targetW), int32(targetH))
}

// Snapshot copies the most recent frame off the surface. GL hands rows
// back bottom-up, so they are flipped on the way out.
func (s *Surface) Snapshot() *image.RGBA {
	w, h := int(s.width), int(s.height)
	flipped := make([]uint8, 4*w*h)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, s.fbo)
	gl.ReadPixels(0, 0, s.width, s.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(flipped))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(s.savedFBO))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := flipped[4*w*(h-1-y) : 4*w*(h-y)]
		dst := img.Pix[y*img.Stride : y*img.Stride+4*w]
		copy(dst, src)
	}
	return img
}

func (s *Surface) Release() {
	if s.tex != 0 {
		gl.DeleteTextures(1, &s.tex)
		s.tex = 0
	}
	if s.fbo != 0 {
		gl.DeleteFramebuffers(1, &s.fbo)
		s.fbo = 0
	}
}
