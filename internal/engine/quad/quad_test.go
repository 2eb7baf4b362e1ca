package quad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ssrview/internal/engine/gpu"
	"github.com/Faultbox/ssrview/internal/engine/gpu/gputest"
)

func TestQuad(t *testing.T) {
	dev := gputest.New()
	q := New(dev)

	attrs := dev.VertexArrays[q.vao]
	assert.Equal(t, gputest.Attrib{Components: 2, Stride: 16, Offset: 0}, attrs[0])
	assert.Equal(t, gputest.Attrib{Components: 2, Stride: 16, Offset: 8}, attrs[1])
	assert.Len(t, dev.Buffers[q.vbo].Floats, 16)

	q.Draw()
	require.Len(t, dev.Draws, 1)
	d := dev.Draws[0]
	assert.Equal(t, gpu.TriangleFan, d.Mode)
	assert.Equal(t, int32(4), d.Count)
	assert.Equal(t, q.vao, d.VertexArray)

	q.Destroy()
	q.Destroy()
	assert.Empty(t, dev.Buffers)
	assert.Empty(t, dev.VertexArrays)
}

func TestCornersCoverClipSpace(t *testing.T) {
	var minX, maxX, minY, maxY float32
	for i := 0; i < len(vertices); i += 4 {
		x, y := vertices[i], vertices[i+1]
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
		// Texture coordinates map clip space [-1, 1] to [0, 1].
		assert.Equal(t, (x+1)/2, vertices[i+2])
		assert.Equal(t, (y+1)/2, vertices[i+3])
	}
	assert.Equal(t, [4]float32{-1, 1, -1, 1}, [4]float32{minX, maxX, minY, maxY})
}
