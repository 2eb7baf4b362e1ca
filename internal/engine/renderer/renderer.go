// Package renderer draws a frame in two passes: scene geometry into the
// G-buffer, then a full-screen composite that resolves reflections.
package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/engine/camera"
	"github.com/Faultbox/ssrview/internal/engine/framebuffer"
	"github.com/Faultbox/ssrview/internal/engine/gpu"
	"github.com/Faultbox/ssrview/internal/engine/model"
	"github.com/Faultbox/ssrview/internal/engine/quad"
	"github.com/Faultbox/ssrview/internal/engine/scene"
	"github.com/Faultbox/ssrview/internal/engine/shader"
	"github.com/Faultbox/ssrview/internal/engine/shaders"
	"github.com/Faultbox/ssrview/internal/logger"
)

// Program names understood by Reload.
const (
	GeometryProgram  = "geometry"
	CompositeProgram = "composite"
)

// Texture units used by the composite pass. The geometry pass samples its
// diffuse map on unit 0.
const (
	unitDepth = iota
	unitColor
	unitReflectivity
	unitNormal
	unitPosition
)

const diffuseUnit = 0

// Params are the tunable inputs of a frame.
type Params struct {
	UseTexture   bool
	FresnelF0    float32
	FadeExponent float32
	Background   [3]float32
}

// DefaultParams returns the standard look.
func DefaultParams() Params {
	return Params{
		UseTexture:   true,
		FresnelF0:    0.04,
		FadeExponent: 8,
		Background:   [3]float32{0.2, 0.2, 0.25},
	}
}

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	// ShaderDir overrides the embedded shader sources when set.
	ShaderDir string
	Params    Params
}

// Renderer owns the two programs, the G-buffer and the composite quad.
type Renderer struct {
	dev       gpu.Device
	config    Config
	geometry  *shader.Program
	composite *shader.Program
	gbuf      *framebuffer.AttachmentSet
	quad      *quad.Quad
	cam       camera.Camera
	scene     *scene.Scene
	mouse     mgl32.Vec2
	log       *zap.Logger
}

// New compiles both programs and allocates the G-buffer at the configured
// size. Any failure is returned and nothing is left allocated.
func New(dev gpu.Device, cfg Config, cam camera.Camera, sc *scene.Scene) (*Renderer, error) {
	if cfg.Width < 1 {
		cfg.Width = 1
	}
	if cfg.Height < 1 {
		cfg.Height = 1
	}
	r := &Renderer{
		dev:    dev,
		config: cfg,
		cam:    cam,
		scene:  sc,
		mouse:  mgl32.Vec2{1, 1},
		log:    logger.Named("renderer"),
	}

	var err error
	if r.geometry, err = r.program(GeometryProgram); err != nil {
		return nil, err
	}
	if r.composite, err = r.program(CompositeProgram); err != nil {
		r.geometry.Destroy()
		return nil, err
	}
	r.gbuf, err = framebuffer.New(dev, framebuffer.DefaultChannels, int32(cfg.Width), int32(cfg.Height))
	if err != nil {
		r.geometry.Destroy()
		r.composite.Destroy()
		return nil, fmt.Errorf("creating g-buffer: %w", err)
	}
	r.quad = quad.New(dev)
	cam.Reshape(cfg.Width, cfg.Height)

	r.log.Info("renderer ready",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)
	return r, nil
}

func (r *Renderer) program(name string) (*shader.Program, error) {
	src, err := shaders.Load(r.config.ShaderDir, name)
	if err != nil {
		return nil, err
	}
	return shader.New(r.dev, name, src.Vertex, src.Fragment)
}

// Close releases every GPU object the renderer created. Scene resources
// belong to the scene.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.quad.Destroy()
	r.gbuf.Destroy()
	r.geometry.Destroy()
	r.composite.Destroy()
}

// Params returns the current frame parameters.
func (r *Renderer) Params() Params { return r.config.Params }

// SetParams replaces the frame parameters.
func (r *Renderer) SetParams(p Params) { r.config.Params = p }

// SetMouse records the pointer in window pixels, origin top-left.
// The composite pass shows reflections left of it.
func (r *Renderer) SetMouse(x, y int) {
	r.mouse = mgl32.Vec2{
		float32(x) / float32(r.config.Width),
		1 - float32(y)/float32(r.config.Height),
	}
}

// Mouse returns the pointer in normalized coordinates, origin bottom-left.
func (r *Renderer) Mouse() mgl32.Vec2 { return r.mouse }

// Size returns the current render size.
func (r *Renderer) Size() (width, height int) { return r.config.Width, r.config.Height }

// GBuffer exposes the attachment set, mostly for tests and debugging.
func (r *Renderer) GBuffer() *framebuffer.AttachmentSet { return r.gbuf }

// Resize reshapes the camera and the G-buffer before the next frame.
func (r *Renderer) Resize(width, height int) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	r.config.Width = width
	r.config.Height = height
	r.cam.Reshape(width, height)
	if err := r.gbuf.Reshape(int32(width), int32(height)); err != nil {
		return fmt.Errorf("resizing g-buffer: %w", err)
	}
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
	return nil
}

// Reload recompiles a program from fresh sources. On failure the running
// program is kept.
func (r *Renderer) Reload(name string, src shaders.Pair) error {
	var p *shader.Program
	switch name {
	case GeometryProgram:
		p = r.geometry
	case CompositeProgram:
		p = r.composite
	default:
		return fmt.Errorf("unknown shader program %q", name)
	}
	return p.Reload(src.Vertex, src.Fragment)
}

// Frame renders one frame to the default framebuffer.
func (r *Renderer) Frame() {
	r.geometryPass()
	r.compositePass()
}

func (r *Renderer) geometryPass() {
	r.gbuf.Bind()
	r.dev.Clear(0, 0, 0, 0)

	g := r.geometry
	g.Use()
	g.SetMat4("uProjection", r.cam.Projection())
	g.SetMat4("uView", r.cam.View())
	g.SetMat4("uCameraTranslation", r.cam.Translation())

	params := model.DrawParams{
		UseTexture:     r.config.Params.UseTexture,
		TextureUnit:    diffuseUnit,
		SetUseTexture:  func(v bool) { g.SetBool("uUseTexture", v) },
		SetTextureUnit: func(unit int) { g.SetInt("uDiffuse", int32(unit)) },
	}
	for _, obj := range r.scene.Ready() {
		g.SetMat4("uModel", obj.ModelMatrix())
		g.SetFloat("uReflectivity", obj.Reflectivity)
		obj.Resource.Draw(params)
	}

	r.gbuf.Unbind()
}

func (r *Renderer) compositePass() {
	w, h := int32(r.config.Width), int32(r.config.Height)
	bg := r.config.Params.Background
	r.dev.Viewport(w, h)
	r.dev.Clear(bg[0], bg[1], bg[2], 1)

	c := r.composite
	c.Use()
	c.SetTexture("uDepth", r.gbuf.DepthTexture(), unitDepth)
	c.SetTexture("uColor", r.gbuf.Texture(framebuffer.Color), unitColor)
	c.SetTexture("uReflectivity", r.gbuf.Texture(framebuffer.Reflectivity), unitReflectivity)
	c.SetTexture("uNormal", r.gbuf.Texture(framebuffer.Normal), unitNormal)
	c.SetTexture("uPosition", r.gbuf.Texture(framebuffer.Position), unitPosition)

	c.SetMat4("uProjection", r.cam.Projection())
	c.SetMat4("uInvProjection", r.cam.InvProjection())
	c.SetMat4("uView", r.cam.View())
	c.SetMat4("uInvView", r.cam.InvView())
	c.SetFloat("uFresnelF0", r.config.Params.FresnelF0)
	c.SetFloat("uFadeExponent", r.config.Params.FadeExponent)
	c.SetVec2("uMouse", r.mouse)
	c.SetVec2("uResolution", mgl32.Vec2{float32(w), float32(h)})

	r.quad.Draw()
}
