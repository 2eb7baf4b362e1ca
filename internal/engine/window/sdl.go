package window

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/engine/input"
	"github.com/Faultbox/ssrview/internal/logger"
)

// SDLWindow wraps SDL2 window and OpenGL context.
type SDLWindow struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	queue     *input.Queue
}

// NewSDL creates a new window with OpenGL context.
func NewSDL(cfg Config) (*SDLWindow, error) {
	w := &SDLWindow{
		config: cfg,
		queue:  input.NewQueue(),
	}

	// Initialize SDL2
	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Set OpenGL attributes BEFORE creating window
	// We want OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	width, height := w.Size()
	logger.Info("window created",
		zap.String("backend", BackendSDL),
		zap.String("title", cfg.Title),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// PollEvents drains SDL's queue and converts what the viewer cares about.
func (w *SDLWindow) PollEvents() []input.Event {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.queue.Push(input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				width, height := w.Size()
				w.queue.Push(input.Event{
					Type:   input.EventWindowResize,
					Width:  width,
					Height: height,
				})
			}

		case *sdl.KeyboardEvent:
			key := sdlKey(e.Keysym.Sym)
			if key == input.KeyNone {
				continue
			}
			typ := input.EventKeyDown
			if e.Type == sdl.KEYUP {
				typ = input.EventKeyUp
			}
			w.queue.Push(input.Event{Type: typ, Key: key})

		case *sdl.MouseMotionEvent:
			x, y := w.toPixels(e.X, e.Y)
			w.queue.Push(input.Event{
				Type:   input.EventMouseMove,
				MouseX: x,
				MouseY: y,
			})

		case *sdl.MouseButtonEvent:
			typ := input.EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				typ = input.EventMouseUp
			}
			x, y := w.toPixels(e.X, e.Y)
			w.queue.Push(input.Event{
				Type:   typ,
				MouseX: x,
				MouseY: y,
				Button: e.Button,
			})
		}
	}
	return w.queue.Drain()
}

func sdlKey(sym sdl.Keycode) rune {
	if sym == sdl.K_ESCAPE {
		return input.KeyEscape
	}
	if sym < 0x80 {
		return input.KeyFromChar(rune(sym))
	}
	return input.KeyNone
}

func (w *SDLWindow) toPixels(x, y int32) (int, int) {
	ww, wh := w.sdlWindow.GetSize()
	dw, dh := w.Size()
	return scale(int(x), int(ww), dw), scale(int(y), int(wh), dh)
}

// Close destroys the window and cleans up SDL2.
func (w *SDLWindow) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *SDLWindow) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the drawable size in pixels.
func (w *SDLWindow) Size() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *SDLWindow) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}
