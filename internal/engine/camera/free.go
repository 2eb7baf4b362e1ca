package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Direction is a discrete translation step.
type Direction int

const (
	Forward Direction = iota
	Back
	Left
	Right
	Up
	Down
)

// keyDirections maps movement keys to directions.
var keyDirections = map[rune]Direction{
	'w': Forward,
	's': Back,
	'a': Left,
	'd': Right,
	'x': Up,
	'z': Down,
}

// FreeCamera flies with discrete key steps and orbits its look direction
// while the pointer is dragged.
type FreeCamera struct {
	base

	rotating bool
	hasLast  bool
	last     mgl32.Vec2
}

// NewFree creates an interactive camera.
func NewFree(cfg Config, width, height int) *FreeCamera {
	return &FreeCamera{base: newBase(cfg, width, height)}
}

// Rotating reports whether a drag is in progress.
func (c *FreeCamera) Rotating() bool {
	return c.rotating
}

// Translate moves position and target together by one step.
// Up and Down change only the Y component.
func (c *FreeCamera) Translate(dir Direction) {
	look := c.target.Sub(c.position)
	left := WorldUp.Cross(look)
	look = safeNormalize(look).Mul(c.cfg.Speed)
	left = safeNormalize(left).Mul(c.cfg.Speed)

	var step mgl32.Vec3
	switch dir {
	case Forward:
		step = look
	case Back:
		step = look.Mul(-1)
	case Left:
		step = left
	case Right:
		step = left.Mul(-1)
	case Up:
		step = mgl32.Vec3{0, c.cfg.Speed, 0}
	case Down:
		step = mgl32.Vec3{0, -c.cfg.Speed, 0}
	default:
		return
	}

	c.position = c.position.Add(step)
	c.target = c.target.Add(step)
	c.updateView()
}

// KeyPress handles a character key. Unknown keys are ignored.
func (c *FreeCamera) KeyPress(key rune) {
	if key == 't' {
		logPosition(&c.base)
		return
	}
	if dir, ok := keyDirections[key]; ok {
		c.Translate(dir)
	}
}

// PointerDown starts an orbit drag. The next move only sets the baseline.
func (c *FreeCamera) PointerDown(x, y float32) {
	c.rotating = true
	c.hasLast = false
}

// PointerUp ends an orbit drag.
func (c *FreeCamera) PointerUp() {
	c.rotating = false
	c.hasLast = false
}

// PointerMove orbits the look direction by the pointer delta.
func (c *FreeCamera) PointerMove(x, y float32) {
	if !c.rotating {
		return
	}
	pos := mgl32.Vec2{x, y}
	if !c.hasLast {
		c.last = pos
		c.hasLast = true
		return
	}
	delta := pos.Sub(c.last)
	c.last = pos
	c.orbit(delta[0], delta[1])
}

// orbit rotates the look direction about an axis perpendicular to both the
// on-screen drag and the look direction. The camera stays in place.
func (c *FreeCamera) orbit(dx, dy float32) {
	look := c.target.Sub(c.position)
	right := safeNormalize(WorldUp.Cross(look)).Mul(-1)

	displacement := right.Mul(dx).Sub(WorldUp.Mul(dy))
	length := displacement.Len()
	if length == 0 {
		return
	}
	axis := displacement.Cross(look)
	if axis.Len() == 0 {
		return
	}

	rot := mgl32.HomogRotate3D(length*c.cfg.RotateSpeed, axis.Normalize())
	rotated := rot.Mul4x1(look.Vec4(0)).Vec3()
	c.target = c.position.Add(safeNormalize(rotated))
	c.updateView()
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}
