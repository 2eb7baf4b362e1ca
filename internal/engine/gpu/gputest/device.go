// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"image"
	"maps"

	"github.com/Faultbox/ssrview/internal/engine/gpu"
)

// Texture describes a live texture.
type Texture struct {
	Format        gpu.TextureFormat
	Width, Height int32
	Image         bool // created from an image rather than as a render target
}

// Framebuffer describes a live framebuffer and its attachments.
type Framebuffer struct {
	Color       map[int]uint32
	Depth       uint32
	DrawBuffers int
}

// Buffer holds the last data uploaded to a buffer object.
type Buffer struct {
	Size    int
	Floats  []float32
	Indices []uint32
}

// Attrib is one configured vertex attribute.
type Attrib struct {
	Components, Stride int32
	Offset             int
}

// Program holds a linked program and the last value written to each uniform.
type Program struct {
	VertexSrc, FragmentSrc string
	Uniforms               map[string]any

	locations map[string]int32
	names     map[int32]string
}

// Draw records one draw call together with the state it observed.
type Draw struct {
	Mode          gpu.Primitive
	First, Count  int32
	Program       uint32
	VertexArray   uint32
	ElementBuffer uint32
	Framebuffer   uint32
	Textures      map[int]uint32
	Uniforms      map[string]any
}

// Device is an in-memory gpu.Device. The zero value is not usable; call New.
type Device struct {
	Textures     map[uint32]*Texture
	Framebuffers map[uint32]*Framebuffer
	Buffers      map[uint32]*Buffer
	VertexArrays map[uint32]map[uint32]Attrib
	Programs     map[uint32]*Program

	BoundFramebuffer uint32
	BoundVertexArray uint32
	BoundElement     uint32
	CurrentProgram   uint32
	BoundTextures    map[int]uint32

	ViewportWidth, ViewportHeight int32
	ClearColors                   [][4]float32
	Draws                         []Draw

	// CompileErr, when set, is returned by every CompileProgram call.
	CompileErr error
	// IncompleteStatus, when non-zero, makes CheckFramebuffer fail.
	IncompleteStatus uint32
	// MissingUniforms lists names UniformLocation reports as absent.
	MissingUniforms map[string]bool

	next        uint32
	arrayBuffer uint32
}

var _ gpu.Device = (*Device)(nil)

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Textures:        make(map[uint32]*Texture),
		Framebuffers:    make(map[uint32]*Framebuffer),
		Buffers:         make(map[uint32]*Buffer),
		VertexArrays:    make(map[uint32]map[uint32]Attrib),
		Programs:        make(map[uint32]*Program),
		BoundTextures:   make(map[int]uint32),
		MissingUniforms: make(map[string]bool),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

// Uniform returns the last value written to name in program, or nil.
func (d *Device) Uniform(program uint32, name string) any {
	if p, ok := d.Programs[program]; ok {
		return p.Uniforms[name]
	}
	return nil
}

// Reset forgets recorded draws and clears but keeps live objects.
func (d *Device) Reset() {
	d.Draws = nil
	d.ClearColors = nil
}

func (d *Device) CreateFramebuffer() uint32 {
	h := d.handle()
	d.Framebuffers[h] = &Framebuffer{Color: make(map[int]uint32)}
	return h
}

func (d *Device) DeleteFramebuffer(fb uint32) {
	delete(d.Framebuffers, fb)
	if d.BoundFramebuffer == fb {
		d.BoundFramebuffer = 0
	}
}

func (d *Device) BindFramebuffer(fb uint32) {
	d.BoundFramebuffer = fb
}

func (d *Device) AttachColor(slot int, tex uint32) {
	if fb, ok := d.Framebuffers[d.BoundFramebuffer]; ok {
		fb.Color[slot] = tex
	}
}

func (d *Device) AttachDepth(tex uint32) {
	if fb, ok := d.Framebuffers[d.BoundFramebuffer]; ok {
		fb.Depth = tex
	}
}

func (d *Device) DrawBuffers(count int) {
	if fb, ok := d.Framebuffers[d.BoundFramebuffer]; ok {
		fb.DrawBuffers = count
	}
}

func (d *Device) CheckFramebuffer() error {
	if d.IncompleteStatus != 0 {
		return &gpu.IncompleteError{Status: d.IncompleteStatus}
	}
	return nil
}

func (d *Device) CreateRenderTexture(format gpu.TextureFormat, width, height int32) uint32 {
	h := d.handle()
	d.Textures[h] = &Texture{Format: format, Width: width, Height: height}
	return h
}

func (d *Device) CreateImageTexture(img *image.RGBA) uint32 {
	if img == nil || len(img.Pix) == 0 {
		return 0
	}
	h := d.handle()
	b := img.Bounds()
	d.Textures[h] = &Texture{Width: int32(b.Dx()), Height: int32(b.Dy()), Image: true}
	return h
}

func (d *Device) DeleteTexture(tex uint32) {
	delete(d.Textures, tex)
}

func (d *Device) BindTexture(unit int, tex uint32) {
	d.BoundTextures[unit] = tex
}

func (d *Device) CreateVertexArray() uint32 {
	h := d.handle()
	d.VertexArrays[h] = make(map[uint32]Attrib)
	return h
}

func (d *Device) DeleteVertexArray(vao uint32) {
	delete(d.VertexArrays, vao)
	if d.BoundVertexArray == vao {
		d.BoundVertexArray = 0
	}
}

func (d *Device) BindVertexArray(vao uint32) {
	d.BoundVertexArray = vao
}

func (d *Device) CreateBuffer() uint32 {
	h := d.handle()
	d.Buffers[h] = &Buffer{}
	return h
}

func (d *Device) DeleteBuffer(buf uint32) {
	delete(d.Buffers, buf)
}

func (d *Device) VertexBufferData(buf uint32, data []float32) {
	d.arrayBuffer = buf
	if b, ok := d.Buffers[buf]; ok {
		b.Floats = append([]float32(nil), data...)
		b.Size = len(data) * 4
	}
}

func (d *Device) AllocVertexBuffer(buf uint32, size int) {
	d.arrayBuffer = buf
	if b, ok := d.Buffers[buf]; ok {
		b.Size = size
		b.Floats = make([]float32, size/4)
	}
}

func (d *Device) VertexBufferSubData(offset int, data []float32) {
	b, ok := d.Buffers[d.arrayBuffer]
	if !ok {
		return
	}
	copy(b.Floats[offset/4:], data)
}

func (d *Device) VertexAttrib(index uint32, components, stride int32, offset int) {
	if attrs, ok := d.VertexArrays[d.BoundVertexArray]; ok {
		attrs[index] = Attrib{Components: components, Stride: stride, Offset: offset}
	}
}

func (d *Device) ElementBufferData(buf uint32, indices []uint32) {
	d.BoundElement = buf
	if b, ok := d.Buffers[buf]; ok {
		b.Indices = append([]uint32(nil), indices...)
		b.Size = len(indices) * 4
	}
}

func (d *Device) BindElementBuffer(buf uint32) {
	d.BoundElement = buf
}

func (d *Device) DrawElements(mode gpu.Primitive, count int32) {
	d.record(mode, 0, count, d.BoundElement)
}

func (d *Device) DrawArrays(mode gpu.Primitive, first, count int32) {
	d.record(mode, first, count, 0)
}

func (d *Device) record(mode gpu.Primitive, first, count int32, ebo uint32) {
	draw := Draw{
		Mode:          mode,
		First:         first,
		Count:         count,
		Program:       d.CurrentProgram,
		VertexArray:   d.BoundVertexArray,
		ElementBuffer: ebo,
		Framebuffer:   d.BoundFramebuffer,
		Textures:      maps.Clone(d.BoundTextures),
	}
	if p, ok := d.Programs[d.CurrentProgram]; ok {
		draw.Uniforms = maps.Clone(p.Uniforms)
	}
	d.Draws = append(d.Draws, draw)
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if d.CompileErr != nil {
		return 0, d.CompileErr
	}
	h := d.handle()
	d.Programs[h] = &Program{
		VertexSrc:   vertexSrc,
		FragmentSrc: fragmentSrc,
		Uniforms:    make(map[string]any),
		locations:   make(map[string]int32),
		names:       make(map[int32]string),
	}
	return h, nil
}

func (d *Device) DeleteProgram(program uint32) {
	delete(d.Programs, program)
	if d.CurrentProgram == program {
		d.CurrentProgram = 0
	}
}

func (d *Device) UseProgram(program uint32) {
	d.CurrentProgram = program
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	p, ok := d.Programs[program]
	if !ok || d.MissingUniforms[name] {
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := int32(len(p.locations))
	p.locations[name] = loc
	p.names[loc] = name
	return loc
}

func (d *Device) set(loc int32, v any) {
	if loc < 0 {
		return
	}
	p, ok := d.Programs[d.CurrentProgram]
	if !ok {
		return
	}
	if name, ok := p.names[loc]; ok {
		p.Uniforms[name] = v
	}
}

func (d *Device) UniformMat4(loc int32, m [16]float32) { d.set(loc, m) }
func (d *Device) Uniform1i(loc int32, v int32)         { d.set(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32)       { d.set(loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32)    { d.set(loc, [2]float32{x, y}) }
func (d *Device) Uniform3f(loc int32, x, y, z float32) { d.set(loc, [3]float32{x, y, z}) }

func (d *Device) Viewport(width, height int32) {
	d.ViewportWidth, d.ViewportHeight = width, height
}

func (d *Device) Clear(r, g, b, a float32) {
	d.ClearColors = append(d.ClearColors, [4]float32{r, g, b, a})
}

// ReadPixels returns a frame filled with the last clear color.
func (d *Device) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(d.ClearColors) == 0 {
		return pixels
	}
	c := d.ClearColors[len(d.ClearColors)-1]
	for i := 0; i < len(pixels); i += 4 {
		for k := 0; k < 4; k++ {
			pixels[i+k] = byte(c[k] * 255)
		}
	}
	return pixels
}
