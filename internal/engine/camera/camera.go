// Package camera provides the view and projection state for rendering.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/logger"
)

// WorldUp is the fixed up vector of every camera.
var WorldUp = mgl32.Vec3{0, 1, 0}

// Camera exposes the matrices the renderer uploads.
type Camera interface {
	View() mgl32.Mat4
	InvView() mgl32.Mat4
	Projection() mgl32.Mat4
	InvProjection() mgl32.Mat4
	// Translation moves world space so the camera sits at the origin,
	// without rotating it.
	Translation() mgl32.Mat4
	Position() mgl32.Vec3
	Target() mgl32.Vec3
	Reshape(width, height int)
}

// Config holds the initial placement and tuning of a camera.
type Config struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	Speed       float32 // world units per key press
	RotateSpeed float32 // radians per pixel of pointer drag
	FOVDegrees  float32 // vertical field of view
	Near, Far   float32
}

// DefaultConfig returns the standard camera tuning.
func DefaultConfig() Config {
	return Config{
		Position:    mgl32.Vec3{0, 1, 5},
		Target:      mgl32.Vec3{0, 1, 0},
		Speed:       0.5,
		RotateSpeed: 0.001,
		FOVDegrees:  90,
		Near:        0.1,
		Far:         100,
	}
}

// base keeps position, target and every derived matrix consistent.
type base struct {
	cfg      Config
	position mgl32.Vec3
	target   mgl32.Vec3

	view, invView mgl32.Mat4
	proj, invProj mgl32.Mat4
	translation   mgl32.Mat4
	width, height int
}

func newBase(cfg Config, width, height int) base {
	b := base{cfg: cfg, position: cfg.Position, target: cfg.Target}
	b.updateView()
	b.Reshape(width, height)
	return b
}

// updateView recomputes the view, its inverse and the translation matrix.
func (b *base) updateView() {
	b.view = mgl32.LookAtV(b.position, b.target, WorldUp)
	b.invView = b.view.Inv()
	b.translation = mgl32.Translate3D(-b.position[0], -b.position[1], -b.position[2])
}

// Reshape recomputes the projection and its inverse for a viewport.
func (b *base) Reshape(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	b.width, b.height = width, height
	aspect := float32(width) / float32(height)
	b.proj = mgl32.Perspective(mgl32.DegToRad(b.cfg.FOVDegrees), aspect, b.cfg.Near, b.cfg.Far)
	b.invProj = b.proj.Inv()
}

func (b *base) View() mgl32.Mat4          { return b.view }
func (b *base) InvView() mgl32.Mat4       { return b.invView }
func (b *base) Projection() mgl32.Mat4    { return b.proj }
func (b *base) InvProjection() mgl32.Mat4 { return b.invProj }
func (b *base) Translation() mgl32.Mat4   { return b.translation }
func (b *base) Position() mgl32.Vec3      { return b.position }
func (b *base) Target() mgl32.Vec3        { return b.target }

// Viewport returns the size last passed to Reshape.
func (b *base) Viewport() (width, height int) { return b.width, b.height }

// SetPosition moves the camera without changing its target.
func (b *base) SetPosition(p mgl32.Vec3) {
	b.position = p
	b.updateView()
}

// SetTarget points the camera at t.
func (b *base) SetTarget(t mgl32.Vec3) {
	b.target = t
	b.updateView()
}

// StaticCamera has no interactive controls.
type StaticCamera struct {
	base
}

// NewStatic creates a camera that only moves through SetPosition and SetTarget.
func NewStatic(cfg Config, width, height int) *StaticCamera {
	return &StaticCamera{base: newBase(cfg, width, height)}
}

var (
	_ Camera = (*StaticCamera)(nil)
	_ Camera = (*FreeCamera)(nil)
)

// logPosition reports where the camera is, for placing scene objects.
func logPosition(b *base) {
	logger.Info("camera position",
		zap.Float32s("position", b.position[:]),
		zap.Float32s("target", b.target[:]),
	)
}
