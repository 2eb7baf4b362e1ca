package mesh

// Attributes is a flat vertex table: every stream is addressed by the same
// vertex index, so one index buffer per submesh is enough to draw it.
type Attributes struct {
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	TexCoords []float32 // 2 per vertex
	Tangents  []float32 // 3 per vertex, zero until ComputeTangents
}

// VertexCount returns the number of vertices in the table.
func (a *Attributes) VertexCount() int {
	return len(a.Positions) / 3
}

// Reindex scatters normals and texture coordinates into arrays addressed by
// position index. When one position is referenced with different normal or
// texture coordinate indices, the last reference wins. References outside
// their pool leave the slot zeroed.
func Reindex(m *Model) *Attributes {
	n := len(m.Positions) / 3
	a := &Attributes{
		Positions: append([]float32(nil), m.Positions[:n*3]...),
		Normals:   make([]float32, n*3),
		TexCoords: make([]float32, n*2),
		Tangents:  make([]float32, n*3),
	}

	normals := len(m.Normals) / 3
	texcoords := len(m.TexCoords) / 2
	for _, sm := range m.Submeshes {
		for _, f := range sm.Faces {
			for _, v := range f.Vertices {
				p := v.Position
				if p < 0 || p >= n {
					continue
				}
				if v.Normal >= 0 && v.Normal < normals {
					copy(a.Normals[p*3:p*3+3], m.Normals[v.Normal*3:v.Normal*3+3])
				}
				if v.TexCoord >= 0 && v.TexCoord < texcoords {
					copy(a.TexCoords[p*2:p*2+2], m.TexCoords[v.TexCoord*2:v.TexCoord*2+2])
				}
			}
		}
	}
	return a
}

// Reindexed returns a model whose pools are the reindexed table and whose
// triplets reference the same index in every stream.
func (m *Model) Reindexed() *Model {
	a := Reindex(m)
	out := &Model{
		Positions:   a.Positions,
		Normals:     a.Normals,
		TexCoords:   a.TexCoords,
		MaterialLib: m.MaterialLib,
		Submeshes:   make([]Submesh, len(m.Submeshes)),
	}
	for i, sm := range m.Submeshes {
		faces := make([]Face, len(sm.Faces))
		for j, f := range sm.Faces {
			for k, v := range f.Vertices {
				faces[j].Vertices[k] = IndexTriplet{Position: v.Position, TexCoord: v.Position, Normal: v.Position}
			}
		}
		out.Submeshes[i] = Submesh{
			Name:     sm.Name,
			Material: sm.Material,
			Faces:    faces,
			Indices:  append([]uint32(nil), sm.Indices...),
		}
	}
	return out
}
