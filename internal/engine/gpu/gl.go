package gpu

import (
	"fmt"
	"image"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/logger"
)

// Sampler is the filtering and wrap state set on a new texture.
type Sampler struct {
	MinFilter int32
	MagFilter int32
	Wrap      int32
}

var (
	// RenderSampler is used for G-buffer channels, read texel for texel.
	RenderSampler = Sampler{MinFilter: gl.NEAREST, MagFilter: gl.NEAREST, Wrap: gl.CLAMP_TO_EDGE}
	// ImageSampler is used for diffuse maps. There are no mipmaps.
	ImageSampler = Sampler{MinFilter: gl.LINEAR, MagFilter: gl.LINEAR, Wrap: gl.CLAMP_TO_EDGE}
)

func (s Sampler) apply() {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, s.MinFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, s.MagFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, s.Wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, s.Wrap)
}

// GL is a Device backed by an OpenGL 4.1 core context.
// It must only be used from the thread that owns the context.
type GL struct{}

// NewGL initializes the OpenGL bindings for the current context.
// IMPORTANT: Must be called AFTER the window has made its context current!
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearDepth(1.0)

	return &GL{}, nil
}

func (*GL) CreateFramebuffer() uint32 {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return fb
}

func (*GL) DeleteFramebuffer(fb uint32) {
	gl.DeleteFramebuffers(1, &fb)
}

func (*GL) BindFramebuffer(fb uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb)
}

func (*GL) AttachColor(slot int, tex uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(slot), gl.TEXTURE_2D, tex, 0)
}

func (*GL) AttachDepth(tex uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, tex, 0)
}

func (*GL) DrawBuffers(count int) {
	if count == 0 {
		gl.DrawBuffer(gl.NONE)
		return
	}
	bufs := make([]uint32, count)
	for i := range bufs {
		bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(int32(count), &bufs[0])
}

func (*GL) CheckFramebuffer() error {
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return &IncompleteError{Status: status}
	}
	return nil
}

func (*GL) CreateRenderTexture(format TextureFormat, width, height int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	RenderSampler.apply()

	switch format {
	case FormatDepth16:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT16, width, height, 0, gl.DEPTH_COMPONENT, gl.UNSIGNED_SHORT, nil)
	default:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F, width, height, 0, gl.RGBA, gl.HALF_FLOAT, nil)
	}
	return tex
}

func (*GL) CreateImageTexture(img *image.RGBA) uint32 {
	if img == nil || len(img.Pix) == 0 {
		return 0
	}
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	ImageSampler.apply()
	return tex
}

func (*GL) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

func (*GL) BindTexture(unit int, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (*GL) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (*GL) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (*GL) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (*GL) CreateBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (*GL) DeleteBuffer(buf uint32) {
	gl.DeleteBuffers(1, &buf)
}

func (*GL) VertexBufferData(buf uint32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (*GL) AllocVertexBuffer(buf uint32, size int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.STATIC_DRAW)
}

func (*GL) VertexBufferSubData(offset int, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, offset, len(data)*4, gl.Ptr(data))
}

func (*GL) VertexAttrib(index uint32, components, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, components, gl.FLOAT, false, stride, uintptr(offset))
	gl.EnableVertexAttribArray(index)
}

func (*GL) ElementBufferData(buf uint32, indices []uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
	if len(indices) == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
}

func (*GL) BindElementBuffer(buf uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
}

func (*GL) DrawElements(mode Primitive, count int32) {
	gl.DrawElements(glMode(mode), count, gl.UNSIGNED_INT, nil)
}

func (*GL) DrawArrays(mode Primitive, first, count int32) {
	gl.DrawArrays(glMode(mode), first, count)
}

func glMode(mode Primitive) uint32 {
	if mode == TriangleFan {
		return gl.TRIANGLE_FAN
	}
	return gl.TRIANGLES
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or a *StageError carrying the driver log.
func (*GL) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &StageError{Stage: "link", Log: strings.TrimRight(log, "\x00")}
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &StageError{Stage: stage, Log: strings.TrimRight(log, "\x00")}
	}

	return shader, nil
}

func (*GL) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (*GL) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (*GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*GL) UniformMat4(loc int32, m [16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (*GL) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (*GL) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (*GL) Uniform2f(loc int32, x, y float32) {
	gl.Uniform2f(loc, x, y)
}

func (*GL) Uniform3f(loc int32, x, y, z float32) {
	gl.Uniform3f(loc, x, y, z)
}

func (*GL) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (*GL) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (*GL) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels
}
