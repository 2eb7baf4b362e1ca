package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// minDeterminant guards the texture-space solve against degenerate UVs.
const minDeterminant = 1e-8

// ComputeTangents fills attrs.Tangents from the triangles in indices.
//
// Each triangle solves for the direction of increasing u from its position
// and texture coordinate edges. Directions are summed per vertex and the
// stored tangent is normalize(cross(normal, sum)). Triangles whose UV
// determinant is near zero contribute nothing, so the output never holds
// NaN or Inf.
func ComputeTangents(attrs *Attributes, indices []uint32) {
	n := attrs.VertexCount()
	sums := make([]mgl32.Vec3, n)

	if len(attrs.TexCoords) < n*2 {
		indices = nil
	}
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}

		p0, p1, p2 := attrs.position(i0), attrs.position(i1), attrs.position(i2)
		uv0, uv1, uv2 := attrs.texCoord(i0), attrs.texCoord(i1), attrs.texCoord(i2)

		dp1 := p1.Sub(p0)
		dp2 := p2.Sub(p0)
		duv1 := uv1.Sub(uv0)
		duv2 := uv2.Sub(uv0)

		det := duv1[0]*duv2[1] - duv1[1]*duv2[0]
		if math32.Abs(det) < minDeterminant {
			continue
		}
		r := 1 / det

		t := dp1.Mul(duv2[1]).Sub(dp2.Mul(duv1[1])).Mul(r)
		if !finite(t) {
			continue
		}
		sums[i0] = sums[i0].Add(t)
		sums[i1] = sums[i1].Add(t)
		sums[i2] = sums[i2].Add(t)
	}

	if len(attrs.Tangents) != n*3 {
		attrs.Tangents = make([]float32, n*3)
	}
	for v := 0; v < n; v++ {
		var normal mgl32.Vec3
		if len(attrs.Normals) >= v*3+3 {
			normal = mgl32.Vec3{attrs.Normals[v*3], attrs.Normals[v*3+1], attrs.Normals[v*3+2]}
		}
		t := normal.Cross(sums[v])
		l := t.Len()
		if l == 0 || !finite(t) || math32.IsInf(l, 0) {
			t = mgl32.Vec3{}
		} else {
			t = t.Mul(1 / l)
		}
		copy(attrs.Tangents[v*3:v*3+3], t[:])
	}
}

func (a *Attributes) position(i int) mgl32.Vec3 {
	return mgl32.Vec3{a.Positions[i*3], a.Positions[i*3+1], a.Positions[i*3+2]}
}

func (a *Attributes) texCoord(i int) mgl32.Vec2 {
	return mgl32.Vec2{a.TexCoords[i*2], a.TexCoords[i*2+1]}
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
