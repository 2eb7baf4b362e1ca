// Package gpu defines the graphics device the engine renders through.
//
// Every GPU-owning component receives a Device in its constructor instead of
// reaching for a package-level context. All GPU state behind a Device is
// single-writer, globally mutable state: whatever a call binds stays bound
// until someone else binds over it, so callers sequence their operations
// explicitly and never assume a binding survives another component's call.
package gpu

import (
	"fmt"
	"image"
)

// TextureFormat selects the storage of a render-target texture.
type TextureFormat int

const (
	// FormatRGBA16F is four 16-bit float channels.
	FormatRGBA16F TextureFormat = iota
	// FormatDepth16 is a 16-bit fixed-point depth channel.
	FormatDepth16
)

func (f TextureFormat) String() string {
	switch f {
	case FormatRGBA16F:
		return "RGBA16F"
	case FormatDepth16:
		return "DEPTH16"
	default:
		return fmt.Sprintf("TextureFormat(%d)", int(f))
	}
}

// Primitive is the topology used by a draw call.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleFan
)

// Device is the subset of the graphics API used by the engine.
// Handles are opaque non-zero integers; zero means "none".
type Device interface {
	// Framebuffers. BindFramebuffer(0) selects the default target.
	CreateFramebuffer() uint32
	DeleteFramebuffer(fb uint32)
	BindFramebuffer(fb uint32)
	AttachColor(slot int, tex uint32)
	AttachDepth(tex uint32)
	DrawBuffers(count int)
	CheckFramebuffer() error

	// Textures. Both kinds clamp to the edge. Render textures use nearest
	// filtering, image textures linear filtering without mipmaps.
	CreateRenderTexture(format TextureFormat, width, height int32) uint32
	CreateImageTexture(img *image.RGBA) uint32
	DeleteTexture(tex uint32)
	BindTexture(unit int, tex uint32)

	// Geometry.
	CreateVertexArray() uint32
	DeleteVertexArray(vao uint32)
	BindVertexArray(vao uint32)
	CreateBuffer() uint32
	DeleteBuffer(buf uint32)
	VertexBufferData(buf uint32, data []float32)
	AllocVertexBuffer(buf uint32, size int)
	VertexBufferSubData(offset int, data []float32)
	VertexAttrib(index uint32, components, stride int32, offset int)
	ElementBufferData(buf uint32, indices []uint32)
	BindElementBuffer(buf uint32)
	DrawElements(mode Primitive, count int32)
	DrawArrays(mode Primitive, first, count int32)

	// Programs.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	UniformMat4(loc int32, m [16]float32)
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	Uniform3f(loc int32, x, y, z float32)

	// Pipeline state.
	Viewport(width, height int32)
	Clear(r, g, b, a float32)
	// ReadPixels returns the bound framebuffer's RGBA8 pixels, bottom row first.
	ReadPixels(width, height int32) []byte
}

// StageError reports a shader stage that failed to compile or a program
// that failed to link. Log holds the driver's diagnostic text.
type StageError struct {
	Stage string // "vertex", "fragment" or "link"
	Log   string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Log)
}

// IncompleteError reports a framebuffer the driver refused.
type IncompleteError struct {
	Status uint32
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("framebuffer incomplete: 0x%x", e.Status)
}
