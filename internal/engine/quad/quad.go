// Package quad provides the full-screen quad post-process passes draw.
package quad

import "github.com/Faultbox/ssrview/internal/engine/gpu"

// vertices holds clip-space position and texture coordinate per corner,
// ordered for a triangle fan.
var vertices = []float32{
	// x, y, u, v
	1, -1, 1, 0,
	-1, -1, 0, 0,
	-1, 1, 0, 1,
	1, 1, 1, 1,
}

const (
	stride      = 4 * 4
	vertexCount = 4
)

// Quad covers the whole viewport.
type Quad struct {
	dev gpu.Device
	vao uint32
	vbo uint32
}

// New uploads the quad. Position is attribute 0, texture coordinate is 1.
func New(dev gpu.Device) *Quad {
	q := &Quad{dev: dev}
	q.vao = dev.CreateVertexArray()
	dev.BindVertexArray(q.vao)

	q.vbo = dev.CreateBuffer()
	dev.VertexBufferData(q.vbo, vertices)
	dev.VertexAttrib(0, 2, stride, 0)
	dev.VertexAttrib(1, 2, stride, 2*4)

	dev.BindVertexArray(0)
	return q
}

// Draw runs the current program once per covered pixel.
func (q *Quad) Draw() {
	q.dev.BindVertexArray(q.vao)
	q.dev.DrawArrays(gpu.TriangleFan, 0, vertexCount)
	q.dev.BindVertexArray(0)
}

// Destroy releases the quad's buffers.
func (q *Quad) Destroy() {
	if q.vbo != 0 {
		q.dev.DeleteBuffer(q.vbo)
		q.vbo = 0
	}
	if q.vao != 0 {
		q.dev.DeleteVertexArray(q.vao)
		q.vao = 0
	}
}
