// Package window creates the OS window and its OpenGL context.
package window

import (
	"fmt"
	"runtime"

	"github.com/Faultbox/ssrview/internal/engine/input"
)

var (
	_ Window = (*SDLWindow)(nil)
	_ Window = (*GLFWWindow)(nil)
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Backend names accepted by New.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds window configuration.
type Config struct {
	Backend    string
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window is a window with a current OpenGL 4.1 core context.
// Sizes and pointer positions are in framebuffer pixels.
type Window interface {
	PollEvents() []input.Event
	SwapBuffers()
	Size() (width, height int)
	SetTitle(title string)
	Close()
}

// New creates a window using the configured backend. SDL is the default.
func New(cfg Config) (Window, error) {
	switch cfg.Backend {
	case "", BackendSDL:
		w, err := NewSDL(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	case BackendGLFW:
		w, err := NewGLFW(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unknown window backend %q", cfg.Backend)
	}
}

// scale converts a window coordinate to framebuffer pixels.
func scale(v, window, drawable int) int {
	if window <= 0 || window == drawable {
		return v
	}
	return v * drawable / window
}
