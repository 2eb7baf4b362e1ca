package renderer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/ssrview/internal/engine/camera"
	"github.com/Faultbox/ssrview/internal/engine/framebuffer"
	"github.com/Faultbox/ssrview/internal/engine/gpu"
	"github.com/Faultbox/ssrview/internal/engine/gpu/gputest"
	"github.com/Faultbox/ssrview/internal/engine/model"
	"github.com/Faultbox/ssrview/internal/engine/scene"
	"github.com/Faultbox/ssrview/internal/engine/shader"
	"github.com/Faultbox/ssrview/internal/engine/shaders"
)

// triangleMesh draws one textured triangle and remembers its params.
type triangleMesh struct {
	dev    gpu.Device
	params []model.DrawParams
}

func (m *triangleMesh) Draw(p model.DrawParams) {
	m.params = append(m.params, p)
	p.SetUseTexture(p.UseTexture)
	if p.UseTexture {
		p.SetTextureUnit(p.TextureUnit)
	}
	m.dev.DrawElements(gpu.Triangles, 3)
}

func (m *triangleMesh) Destroy() {}

func newRenderer(t *testing.T, dev *gputest.Device, sc *scene.Scene) *Renderer {
	t.Helper()
	cam := camera.NewStatic(camera.DefaultConfig(), 800, 600)
	r, err := New(dev, Config{Width: 800, Height: 600, Params: DefaultParams()}, cam, sc)
	require.NoError(t, err)
	return r
}

func TestFrameRunsGeometryThenComposite(t *testing.T) {
	dev := gputest.New()
	box := &Object{Name: "box", Mesh: "box.obj", Position: mgl32.Vec3{0, 1, 0}, Reflectivity: 0.7}
	pending := &Object{Name: "sponza", Mesh: "sponza.obj"}
	sc := scene.New(box, pending)
	mesh := &triangleMesh{dev: dev}
	sc.Attach("box.obj", mesh)

	r := newRenderer(t, dev, sc)
	r.Frame()

	require.Len(t, dev.Draws, 2, "one object draw plus the quad")
	assert.Equal(t, [][4]float32{{0, 0, 0, 0}, {0.2, 0.2, 0.25, 1}}, dev.ClearColors)

	geo := dev.Draws[0]
	assert.Equal(t, r.geometry.Handle(), geo.Program)
	assert.NotZero(t, geo.Framebuffer)
	assert.Equal(t, gpu.Triangles, geo.Mode)
	assert.Equal(t, float32(0.7), geo.Uniforms["uReflectivity"])
	assert.Equal(t, [16]float32(box.ModelMatrix()), geo.Uniforms["uModel"])
	assert.Equal(t, int32(1), geo.Uniforms["uUseTexture"])
	assert.Equal(t, int32(0), geo.Uniforms["uDiffuse"])
	assert.Contains(t, geo.Uniforms, "uCameraTranslation")

	comp := dev.Draws[1]
	gbuf := r.GBuffer()
	assert.Equal(t, r.composite.Handle(), comp.Program)
	assert.Zero(t, comp.Framebuffer)
	assert.Equal(t, gpu.TriangleFan, comp.Mode)
	assert.Equal(t, int32(4), comp.Count)
	assert.Equal(t, gbuf.DepthTexture(), comp.Textures[0])
	assert.Equal(t, gbuf.Texture(framebuffer.Color), comp.Textures[1])
	assert.Equal(t, gbuf.Texture(framebuffer.Reflectivity), comp.Textures[2])
	assert.Equal(t, gbuf.Texture(framebuffer.Normal), comp.Textures[3])
	assert.Equal(t, gbuf.Texture(framebuffer.Position), comp.Textures[4])
	assert.Equal(t, int32(4), comp.Uniforms["uPosition"])
	assert.Equal(t, [2]float32{1, 1}, comp.Uniforms["uMouse"])
	assert.Equal(t, [2]float32{800, 600}, comp.Uniforms["uResolution"])
	assert.Equal(t, float32(0.04), comp.Uniforms["uFresnelF0"])
	assert.Equal(t, int32(800), dev.ViewportWidth)
}

// Object aliases the scene type to keep the fixtures short.
type Object = scene.Object

func TestFrameWithoutReadyObjectsDrawsOnlyQuad(t *testing.T) {
	dev := gputest.New()
	sc := scene.New(&Object{Mesh: "box.obj"})
	r := newRenderer(t, dev, sc)

	r.Frame()
	require.Len(t, dev.Draws, 1)
	assert.Equal(t, gpu.TriangleFan, dev.Draws[0].Mode)
}

func TestUseTextureOff(t *testing.T) {
	dev := gputest.New()
	sc := scene.New(&Object{Mesh: "box.obj"})
	mesh := &triangleMesh{dev: dev}
	sc.Attach("box.obj", mesh)
	r := newRenderer(t, dev, sc)

	p := r.Params()
	p.UseTexture = false
	r.SetParams(p)
	r.Frame()

	require.Len(t, mesh.params, 1)
	assert.False(t, mesh.params[0].UseTexture)
	assert.Equal(t, int32(0), dev.Draws[0].Uniforms["uUseTexture"])
}

func TestResizeReshapesGBuffer(t *testing.T) {
	dev := gputest.New()
	r := newRenderer(t, dev, scene.New())
	gbuf := r.GBuffer()
	old := gbuf.Texture(framebuffer.Color)

	require.NoError(t, r.Resize(1024, 768))
	w, h := gbuf.Size()
	assert.Equal(t, int32(1024), w)
	assert.Equal(t, int32(768), h)
	assert.NotContains(t, dev.Textures, old)
	assert.Len(t, gbuf.Channels(), 4)

	r.Frame()
	comp := dev.Draws[len(dev.Draws)-1]
	assert.Equal(t, [2]float32{1024, 768}, comp.Uniforms["uResolution"])
}

func TestSetMouseNormalizes(t *testing.T) {
	r := newRenderer(t, gputest.New(), scene.New())
	r.SetMouse(200, 150)
	assert.Equal(t, mgl32.Vec2{0.25, 0.75}, r.Mouse())
}

func TestNewFailsOnCompileError(t *testing.T) {
	dev := gputest.New()
	dev.CompileErr = &gpu.StageError{Stage: "fragment", Log: "bad"}
	cam := camera.NewStatic(camera.DefaultConfig(), 800, 600)

	r, err := New(dev, Config{Width: 800, Height: 600}, cam, scene.New())
	require.Error(t, err)
	assert.Nil(t, r)

	var ce *shader.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, GeometryProgram, ce.Program)
}

func TestNewFailsOnIncompleteGBuffer(t *testing.T) {
	dev := gputest.New()
	dev.IncompleteStatus = 0x8CD6
	cam := camera.NewStatic(camera.DefaultConfig(), 800, 600)

	_, err := New(dev, Config{Width: 800, Height: 600}, cam, scene.New())
	require.ErrorIs(t, err, framebuffer.ErrIncomplete)
	assert.Empty(t, dev.Programs)
	assert.Empty(t, dev.Textures)
}

func TestReload(t *testing.T) {
	dev := gputest.New()
	r := newRenderer(t, dev, scene.New())
	old := r.composite.Handle()

	dev.CompileErr = &gpu.StageError{Stage: "fragment", Log: "bad"}
	require.Error(t, r.Reload(CompositeProgram, shaders.Pair{Vertex: "v", Fragment: "f"}))
	assert.Equal(t, old, r.composite.Handle())

	dev.CompileErr = nil
	require.NoError(t, r.Reload(CompositeProgram, shaders.Pair{Vertex: "v", Fragment: "f"}))
	assert.NotEqual(t, old, r.composite.Handle())

	assert.Error(t, r.Reload("bloom", shaders.Pair{}))
}

func TestClose(t *testing.T) {
	dev := gputest.New()
	r := newRenderer(t, dev, scene.New())
	r.Close()
	assert.Empty(t, dev.Programs)
	assert.Empty(t, dev.Textures)
	assert.Empty(t, dev.Framebuffers)
	assert.Empty(t, dev.VertexArrays)
}
