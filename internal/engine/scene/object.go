package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/ssrview/internal/engine/model"
)

// Object is one placed instance of a mesh.
type Object struct {
	Name         string
	Mesh         string // asset path of the OBJ file
	Position     mgl32.Vec3
	Rotation     mgl32.Vec3 // degrees about X, Y and Z
	Scale        mgl32.Vec3
	Reflectivity float32

	// Resource is set, and Ready becomes true, once the mesh is on the GPU.
	Resource model.MeshResource
	Ready    bool
}

// ModelMatrix returns translate * rotateY * rotateX * rotateZ * scale.
func (o *Object) ModelMatrix() mgl32.Mat4 {
	scale := o.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	t := mgl32.Translate3D(o.Position[0], o.Position[1], o.Position[2])
	r := mgl32.HomogRotate3DY(mgl32.DegToRad(o.Rotation[1])).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(o.Rotation[0]))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(o.Rotation[2])))
	s := mgl32.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}
