// Package shader wraps linked GPU programs with name-addressed uniform setters.
package shader

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/engine/gpu"
	"github.com/Faultbox/ssrview/internal/logger"
)

// CompileError reports a program whose stage failed to compile or link.
type CompileError struct {
	Program string
	Stage   string
	Log     string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader %q: %s stage failed: %s", e.Program, e.Stage, e.Log)
}

// Program is a linked vertex+fragment program.
//
// Setters write to the program currently in use on the device, so callers
// call Use first. A program with a zero handle ignores every setter.
type Program struct {
	dev       gpu.Device
	name      string
	handle    uint32
	locations map[string]int32
	log       *zap.Logger
}

// New compiles and links a program. Failures return a *CompileError.
func New(dev gpu.Device, name, vertexSrc, fragmentSrc string) (*Program, error) {
	p := &Program{
		dev:       dev,
		name:      name,
		locations: make(map[string]int32),
		log:       logger.Named("shader").With(zap.String("program", name)),
	}
	handle, err := compile(dev, name, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	p.handle = handle
	p.log.Debug("program linked", zap.Uint32("handle", handle))
	return p, nil
}

// NewLenient behaves like New but never fails: the diagnostic is logged
// and the returned program has a zero handle.
func NewLenient(dev gpu.Device, name, vertexSrc, fragmentSrc string) *Program {
	p, err := New(dev, name, vertexSrc, fragmentSrc)
	if err == nil {
		return p
	}
	logger.Error("shader program unusable", zap.String("program", name), zap.Error(err))
	return &Program{
		dev:       dev,
		name:      name,
		locations: make(map[string]int32),
		log:       logger.Named("shader").With(zap.String("program", name)),
	}
}

func compile(dev gpu.Device, name, vertexSrc, fragmentSrc string) (uint32, error) {
	handle, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err == nil {
		return handle, nil
	}
	var stageErr *gpu.StageError
	if errors.As(err, &stageErr) {
		return 0, &CompileError{Program: name, Stage: stageErr.Stage, Log: stageErr.Log}
	}
	return 0, &CompileError{Program: name, Stage: "link", Log: err.Error()}
}

// Name returns the program's name.
func (p *Program) Name() string { return p.name }

// Handle returns the device handle, zero when the program is unusable.
func (p *Program) Handle() uint32 { return p.handle }

// Use makes the program current.
func (p *Program) Use() {
	p.dev.UseProgram(p.handle)
}

// Reload replaces the program with newly compiled sources.
// On failure the previous program stays in place.
func (p *Program) Reload(vertexSrc, fragmentSrc string) error {
	handle, err := compile(p.dev, p.name, vertexSrc, fragmentSrc)
	if err != nil {
		return err
	}
	if p.handle != 0 {
		p.dev.DeleteProgram(p.handle)
	}
	p.handle = handle
	clear(p.locations)
	p.log.Info("program reloaded", zap.Uint32("handle", handle))
	return nil
}

// Destroy releases the program.
func (p *Program) Destroy() {
	if p.handle != 0 {
		p.dev.DeleteProgram(p.handle)
		p.handle = 0
	}
	clear(p.locations)
}

func (p *Program) location(name string) int32 {
	if p.handle == 0 {
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.handle, name)
	if loc < 0 {
		p.log.Debug("uniform not active", zap.String("uniform", name))
	}
	p.locations[name] = loc
	return loc
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.location(name); loc >= 0 {
		p.dev.UniformMat4(loc, m)
	}
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	if loc := p.location(name); loc >= 0 {
		p.dev.Uniform2f(loc, v[0], v[1])
	}
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.location(name); loc >= 0 {
		p.dev.Uniform3f(loc, v[0], v[1], v[2])
	}
}

func (p *Program) SetInt(name string, v int32) {
	if loc := p.location(name); loc >= 0 {
		p.dev.Uniform1i(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.location(name); loc >= 0 {
		p.dev.Uniform1f(loc, v)
	}
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

// SetTexture binds tex to the given unit and points the sampler uniform at it.
func (p *Program) SetTexture(name string, tex uint32, unit int) {
	if p.handle == 0 {
		return
	}
	p.dev.BindTexture(unit, tex)
	p.SetInt(name, int32(unit))
}
