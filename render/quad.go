package render

import "github.com/go-gl/gl/v4.6-core/gl"

// Quad is the two-triangle fullscreen quad every visualization draws.
type Quad struct {
	vao uint32
	vbo uint32
}

var quadVertices = []float32{
	-1, -1,
	1, -1,
	1, 1,

	-1, -1,
	1, 1,
	-1, 1,
}

func NewQuad() *Quad {
	q := &Quad{}

	gl.GenVertexArrays(1, &q.vao)
	gl.BindVertexArray(q.vao)

	gl.GenBuffers(1, &q.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	return q
}

func (q *Quad) Bind() {
	gl.BindVertexArray(q.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
}

func (q *Quad) Draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

func (q *Quad) Release() {
	if q.vbo != 0 {
		gl.DeleteBuffers(1, &q.vbo)
		q.vbo = 0
	}
	if q.vao != 0 {
		gl.DeleteVertexArrays(1, &q.vao)
		q.vao = 0
	}
}
