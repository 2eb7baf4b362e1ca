package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/engine/input"
	"github.com/Faultbox/ssrview/internal/logger"
)

// GLFWWindow is the GLFW alternative to SDLWindow. Callbacks fill a queue
// that PollEvents hands out once per frame.
type GLFWWindow struct {
	config Config
	win    *glfw.Window
	queue  *input.Queue
}

// NewGLFW creates a window with an OpenGL 4.1 core context.
func NewGLFW(cfg Config) (*GLFWWindow, error) {
	logger.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init failed: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var monitor *glfw.Monitor
	width, height := cfg.Width, cfg.Height
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}

	win, err := glfw.CreateWindow(width, height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw create window failed: %w", err)
	}
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &GLFWWindow{
		config: cfg,
		win:    win,
		queue:  input.NewQueue(),
	}
	w.installCallbacks()

	fw, fh := w.Size()
	logger.Info("window created",
		zap.String("backend", BackendGLFW),
		zap.String("title", cfg.Title),
		zap.Int("width", fw),
		zap.Int("height", fh),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return w, nil
}

func (w *GLFWWindow) installCallbacks() {
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.queue.Push(input.Event{
			Type:   input.EventWindowResize,
			Width:  width,
			Height: height,
		})
	})

	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		k := glfwKey(key)
		if k == input.KeyNone {
			return
		}
		typ := input.EventKeyDown
		if action == glfw.Release {
			typ = input.EventKeyUp
		}
		w.queue.Push(input.Event{Type: typ, Key: k})
	})

	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		px, py := w.toPixels(x, y)
		w.queue.Push(input.Event{
			Type:   input.EventMouseMove,
			MouseX: px,
			MouseY: py,
		})
	})

	w.win.SetMouseButtonCallback(func(gw *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		typ := input.EventMouseDown
		if action == glfw.Release {
			typ = input.EventMouseUp
		}
		px, py := w.toPixels(gw.GetCursorPos())
		w.queue.Push(input.Event{
			Type:   typ,
			MouseX: px,
			MouseY: py,
			Button: uint8(button) + input.ButtonLeft,
		})
	})
}

func glfwKey(key glfw.Key) rune {
	if key == glfw.KeyEscape {
		return input.KeyEscape
	}
	if key >= glfw.KeySpace && key <= glfw.KeyGraveAccent {
		return input.KeyFromChar(rune(key))
	}
	return input.KeyNone
}

func (w *GLFWWindow) toPixels(x, y float64) (int, int) {
	ww, wh := w.win.GetSize()
	fw, fh := w.Size()
	return scale(int(x), ww, fw), scale(int(y), wh, fh)
}

// PollEvents processes pending GLFW events and returns them.
func (w *GLFWWindow) PollEvents() []input.Event {
	glfw.PollEvents()
	if w.win.ShouldClose() {
		w.queue.Push(input.Event{Type: input.EventQuit})
	}
	return w.queue.Drain()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *GLFWWindow) SwapBuffers() {
	w.win.SwapBuffers()
}

// Size returns the framebuffer size in pixels.
func (w *GLFWWindow) Size() (int, int) {
	return w.win.GetFramebufferSize()
}

// SetTitle sets the window title.
func (w *GLFWWindow) SetTitle(title string) {
	w.win.SetTitle(title)
}

// Close destroys the window and terminates GLFW.
func (w *GLFWWindow) Close() {
	logger.Info("closing window")
	w.win.Destroy()
	glfw.Terminate()
}
