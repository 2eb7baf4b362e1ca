// Package scene tracks the objects the renderer draws and whether their
// meshes have finished loading.
package scene

import "github.com/Faultbox/ssrview/internal/engine/model"

// Scene is a flat list of objects. It is only touched from the render thread.
type Scene struct {
	Objects []*Object
}

// New creates a scene holding objs.
func New(objs ...*Object) *Scene {
	return &Scene{Objects: objs}
}

// Add appends an object. It stays hidden until its mesh is attached.
func (s *Scene) Add(obj *Object) {
	s.Objects = append(s.Objects, obj)
}

// Meshes returns every distinct mesh path, in first-use order.
func (s *Scene) Meshes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range s.Objects {
		if o.Mesh != "" && !seen[o.Mesh] {
			seen[o.Mesh] = true
			out = append(out, o.Mesh)
		}
	}
	return out
}

// Attach gives every object using meshPath its GPU resource and marks it
// ready. It returns how many objects became drawable.
func (s *Scene) Attach(meshPath string, res model.MeshResource) int {
	n := 0
	for _, o := range s.Objects {
		if o.Mesh == meshPath {
			o.Resource = res
			o.Ready = true
			n++
		}
	}
	return n
}

// Ready returns the objects that can be drawn.
func (s *Scene) Ready() []*Object {
	var out []*Object
	for _, o := range s.Objects {
		if o.Ready && o.Resource != nil {
			out = append(out, o)
		}
	}
	return out
}

// Destroy releases each distinct resource once and marks objects not ready.
func (s *Scene) Destroy() {
	done := make(map[model.MeshResource]bool)
	for _, o := range s.Objects {
		if o.Resource != nil && !done[o.Resource] {
			done[o.Resource] = true
			o.Resource.Destroy()
		}
		o.Resource = nil
		o.Ready = false
	}
}
