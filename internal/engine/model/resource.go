// Package model uploads parsed meshes to the GPU and draws them.
package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/ssrview/internal/engine/gpu"
	"github.com/Faultbox/ssrview/internal/engine/mesh"
)

// Vertex attribute locations shared with the geometry shader.
const (
	LocPosition uint32 = 0
	LocNormal   uint32 = 1
	LocTexCoord uint32 = 2
	LocTangent  uint32 = 3
)

// ErrInvalidMesh reports attribute streams that cannot be drawn together.
var ErrInvalidMesh = errors.New("invalid mesh")

// MeshResource is anything the geometry pass can draw.
type MeshResource interface {
	Draw(p DrawParams)
	Destroy()
}

// DrawParams carries the per-draw texturing state.
//
// SetUseTexture is called before every submesh with whether a diffuse map
// is bound; SetTextureUnit is called with TextureUnit when one is.
type DrawParams struct {
	UseTexture     bool
	TextureUnit    int
	SetUseTexture  func(bool)
	SetTextureUnit func(int)
}

// Part is one submesh's draw range.
type Part struct {
	Name       string
	Material   string
	IndexCount int32
	Texture    uint32 // diffuse map, zero when untextured

	ebo uint32
}

// Resource owns the vertex array, the shared vertex buffer, one index buffer
// per submesh, and the diffuse textures handed to Build.
type Resource struct {
	dev         gpu.Device
	vao         uint32
	vbo         uint32
	parts       []Part
	textures    []uint32
	vertexCount int
}

var _ MeshResource = (*Resource)(nil)

// Build uploads attrs and one index buffer per submesh. textures maps
// material names to diffuse textures; Resource takes ownership of them.
// Submeshes whose material has no texture draw untextured.
func Build(dev gpu.Device, attrs *mesh.Attributes, submeshes []mesh.Submesh, textures map[string]uint32) (*Resource, error) {
	n := attrs.VertexCount()
	if err := validate(attrs, submeshes); err != nil {
		return nil, err
	}

	tangents := attrs.Tangents
	if len(tangents) == 0 {
		tangents = make([]float32, n*3)
	}
	streams := [][]float32{attrs.Positions, attrs.Normals, attrs.TexCoords, tangents}
	components := []int32{3, 3, 2, 3}
	locations := []uint32{LocPosition, LocNormal, LocTexCoord, LocTangent}

	r := &Resource{dev: dev, vertexCount: n}
	r.vao = dev.CreateVertexArray()
	dev.BindVertexArray(r.vao)

	size := 0
	for _, s := range streams {
		size += len(s) * 4
	}
	r.vbo = dev.CreateBuffer()
	dev.AllocVertexBuffer(r.vbo, size)

	// Streams are stored back to back: positions | normals | texcoords | tangents.
	offset := 0
	for i, s := range streams {
		dev.VertexBufferSubData(offset, s)
		dev.VertexAttrib(locations[i], components[i], 0, offset)
		offset += len(s) * 4
	}

	seen := make(map[uint32]bool)
	for _, sm := range submeshes {
		if len(sm.Indices) == 0 {
			continue
		}
		p := Part{
			Name:       sm.Name,
			Material:   sm.Material,
			IndexCount: int32(len(sm.Indices)),
			ebo:        dev.CreateBuffer(),
		}
		dev.ElementBufferData(p.ebo, sm.Indices)
		if sm.Material != "" {
			p.Texture = textures[sm.Material]
		}
		r.parts = append(r.parts, p)
	}
	for _, tex := range textures {
		if tex != 0 && !seen[tex] {
			seen[tex] = true
			r.textures = append(r.textures, tex)
		}
	}

	dev.BindVertexArray(0)
	return r, nil
}

func validate(attrs *mesh.Attributes, submeshes []mesh.Submesh) error {
	n := attrs.VertexCount()
	if n == 0 {
		return fmt.Errorf("%w: no vertices", ErrInvalidMesh)
	}
	if len(attrs.Normals) != n*3 || len(attrs.TexCoords) != n*2 {
		return fmt.Errorf("%w: attribute streams disagree on vertex count %d", ErrInvalidMesh, n)
	}
	if len(attrs.Tangents) != 0 && len(attrs.Tangents) != n*3 {
		return fmt.Errorf("%w: tangent stream has %d floats for %d vertices", ErrInvalidMesh, len(attrs.Tangents), n)
	}
	for _, sm := range submeshes {
		for _, idx := range sm.Indices {
			if int(idx) >= n {
				return fmt.Errorf("%w: submesh %q index %d out of range [0, %d)", ErrInvalidMesh, sm.Name, idx, n)
			}
		}
	}
	return nil
}

// Parts returns the submesh draw ranges in draw order.
func (r *Resource) Parts() []Part {
	return r.parts
}

// VertexCount returns the number of vertices in the shared buffer.
func (r *Resource) VertexCount() int {
	return r.vertexCount
}

// Draw issues one indexed triangle draw per submesh.
// The vertex array, element buffer, texture unit and whatever the callbacks
// touch are left bound for the next caller to overwrite.
func (r *Resource) Draw(p DrawParams) {
	r.dev.BindVertexArray(r.vao)
	for _, part := range r.parts {
		r.dev.BindElementBuffer(part.ebo)

		textured := p.UseTexture && part.Texture != 0
		if textured {
			r.dev.BindTexture(p.TextureUnit, part.Texture)
			if p.SetTextureUnit != nil {
				p.SetTextureUnit(p.TextureUnit)
			}
		}
		if p.SetUseTexture != nil {
			p.SetUseTexture(textured)
		}

		r.dev.DrawElements(gpu.Triangles, part.IndexCount)
	}
	r.dev.BindVertexArray(0)
}

// Destroy releases every GPU object the resource owns.
func (r *Resource) Destroy() {
	for i := range r.parts {
		if r.parts[i].ebo != 0 {
			r.dev.DeleteBuffer(r.parts[i].ebo)
			r.parts[i].ebo = 0
		}
	}
	r.parts = nil
	for _, tex := range r.textures {
		r.dev.DeleteTexture(tex)
	}
	r.textures = nil
	if r.vbo != 0 {
		r.dev.DeleteBuffer(r.vbo)
		r.vbo = 0
	}
	if r.vao != 0 {
		r.dev.DeleteVertexArray(r.vao)
		r.vao = 0
	}
}
