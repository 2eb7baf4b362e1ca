// Package app implements the viewer's main loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/assets"
	"github.com/Faultbox/ssrview/internal/config"
	"github.com/Faultbox/ssrview/internal/engine/camera"
	"github.com/Faultbox/ssrview/internal/engine/debug"
	"github.com/Faultbox/ssrview/internal/engine/gpu"
	"github.com/Faultbox/ssrview/internal/engine/input"
	"github.com/Faultbox/ssrview/internal/engine/model"
	"github.com/Faultbox/ssrview/internal/engine/renderer"
	"github.com/Faultbox/ssrview/internal/engine/scene"
	"github.com/Faultbox/ssrview/internal/engine/shader"
	"github.com/Faultbox/ssrview/internal/engine/shaders"
	"github.com/Faultbox/ssrview/internal/engine/window"
	"github.com/Faultbox/ssrview/internal/logger"
)

// App is the viewer instance. All methods run on the main thread.
type App struct {
	cfg      *config.Config
	win      window.Window
	dev      gpu.Device
	assets   *assets.Manager
	cam      camera.Camera
	free     *camera.FreeCamera // nil when the camera is fixed
	scene    *scene.Scene
	renderer *renderer.Renderer
	watcher  *shader.Watcher
	shots    *debug.ScreenshotCapture

	ctx     context.Context
	cancel  context.CancelFunc
	pending []<-chan assets.ModelResult

	running  bool
	err      error
	shoot    bool
	frames   int
	fpsTimer time.Time
	log      *zap.Logger
}

// New opens the window, creates the GL device and builds the viewer.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Create window (this also creates OpenGL context)
	win, err := window.New(window.Config{
		Backend:    cfg.Window.Backend,
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The device must come AFTER the window, since the context must exist
	dev, err := gpu.NewGL()
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	mgr := assets.NewManager(cfg.Assets.MaxParallelImages, assets.DirSource{Root: cfg.Assets.Root})
	a, err := build(cfg, win, dev, mgr)
	if err != nil {
		win.Close()
		return nil, err
	}
	return a, nil
}

// build wires the viewer around an existing window and device. It owns mgr
// and closes it when wiring fails.
func build(cfg *config.Config, win window.Window, dev gpu.Device, mgr *assets.Manager) (*App, error) {
	width, height := win.Size()
	a := &App{
		cfg:    cfg,
		win:    win,
		dev:    dev,
		assets: mgr,
		scene:  newScene(cfg.Scene),
		shots:  debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, "ssrview"),
		log:    logger.Named("app"),
	}

	camCfg := cameraConfig(cfg.Camera)
	if cfg.Camera.Orbit {
		a.free = camera.NewFree(camCfg, width, height)
		a.cam = a.free
	} else {
		a.cam = camera.NewStatic(camCfg, width, height)
	}

	r, err := renderer.New(dev, renderer.Config{
		Width:     width,
		Height:    height,
		ShaderDir: cfg.Shaders.Dir,
		Params: renderer.Params{
			UseTexture:   cfg.Graphics.UseTexture,
			FresnelF0:    cfg.Reflection.FresnelF0,
			FadeExponent: cfg.Reflection.FadeExponent,
			Background:   cfg.Graphics.Background,
		},
	}, a.cam, a.scene)
	if err != nil {
		mgr.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.renderer = r

	if cfg.Shaders.HotReload && cfg.Shaders.Dir != "" {
		w, err := shader.Watch(cfg.Shaders.Dir)
		if err != nil {
			// Viewing still works without reload.
			a.log.Warn("shader hot reload disabled", zap.Error(err))
		} else {
			a.watcher = w
		}
	}

	a.ctx, a.cancel = context.WithCancel(context.Background())
	for _, path := range a.scene.Meshes() {
		a.log.Debug("loading mesh", zap.String("path", path))
		a.pending = append(a.pending, mgr.LoadModel(a.ctx, path))
	}

	a.log.Info("viewer initialized",
		zap.Int("objects", len(a.scene.Objects)),
		zap.Int("meshes", len(a.pending)),
	)
	return a, nil
}

func cameraConfig(c config.CameraConfig) camera.Config {
	return camera.Config{
		Position:    mgl32.Vec3(c.Position),
		Target:      mgl32.Vec3(c.Target),
		Speed:       c.Speed,
		RotateSpeed: c.RotateSpeed,
		FOVDegrees:  c.FOVDegrees,
		Near:        c.Near,
		Far:         c.Far,
	}
}

func newScene(c config.SceneConfig) *scene.Scene {
	sc := scene.New()
	for _, o := range c.Objects {
		sc.Add(&scene.Object{
			Name:         o.Name,
			Mesh:         o.Mesh,
			Position:     mgl32.Vec3(o.Position),
			Rotation:     mgl32.Vec3(o.Rotation),
			Scale:        mgl32.Vec3(o.Scale),
			Reflectivity: o.Reflectivity,
		})
	}
	return sc
}

// Run starts the main loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true
	a.fpsTimer = time.Now()

	a.log.Info("starting frame loop")
	for a.running {
		a.step()
	}
	return a.err
}

// step runs one frame.
func (a *App) step() {
	// 1. Process input
	for _, event := range a.win.PollEvents() {
		a.handleEvent(event)
	}
	if !a.running {
		return
	}

	// 2. Finish any asset loads and shader edits
	a.pollAssets()
	a.pollShaders()

	// 3. Render and present
	a.renderer.Frame()
	if a.shoot {
		a.shoot = false
		a.screenshot()
	}
	a.win.SwapBuffers()

	// FPS counter
	a.frames++
	if since := time.Since(a.fpsTimer); since >= time.Second {
		fps := float64(a.frames) / since.Seconds()
		a.log.Debug("fps", zap.Float64("fps", fps))
		if a.cfg.Graphics.ShowFPS {
			a.win.SetTitle(fmt.Sprintf("%s - %.0f fps", a.cfg.Window.Title, fps))
		}
		a.frames = 0
		a.fpsTimer = time.Now()
	}
}

func (a *App) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventQuit:
		a.running = false

	case input.EventWindowResize:
		if err := a.renderer.Resize(event.Width, event.Height); err != nil {
			a.err = err
			a.running = false
		}

	case input.EventKeyDown:
		switch event.Key {
		case input.KeyEscape:
			a.running = false
			return
		case screenshotKey:
			a.shoot = true
			return
		}
		if a.free != nil {
			a.free.KeyPress(event.Key)
		}

	case input.EventMouseDown:
		if a.free != nil && event.Button == input.ButtonLeft {
			a.free.PointerDown(float32(event.MouseX), float32(event.MouseY))
		}

	case input.EventMouseUp:
		if a.free != nil && event.Button == input.ButtonLeft {
			a.free.PointerUp()
		}

	case input.EventMouseMove:
		a.renderer.SetMouse(event.MouseX, event.MouseY)
		if a.free != nil {
			a.free.PointerMove(float32(event.MouseX), float32(event.MouseY))
		}
	}
}

// screenshotKey saves the composited frame.
const screenshotKey = 'p'

func (a *App) screenshot() {
	w, h := a.renderer.Size()
	pixels := a.dev.ReadPixels(int32(w), int32(h))
	path, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// pollAssets uploads every model whose background load has finished.
func (a *App) pollAssets() {
	remaining := a.pending[:0]
	for _, ch := range a.pending {
		select {
		case res := <-ch:
			a.upload(res)
		default:
			remaining = append(remaining, ch)
		}
	}
	a.pending = remaining
}

func (a *App) upload(res assets.ModelResult) {
	if res.Err != nil {
		a.log.Error("mesh load failed", zap.String("path", res.Path), zap.Error(res.Err))
		return
	}

	textures := model.UploadTextures(a.dev, res.Images)
	resource, err := model.Build(a.dev, res.Attributes, res.Model.Submeshes, textures)
	if err != nil {
		for _, tex := range textures {
			a.dev.DeleteTexture(tex)
		}
		a.log.Error("mesh upload failed", zap.String("path", res.Path), zap.Error(err))
		return
	}

	n := a.scene.Attach(res.Path, resource)
	if n == 0 {
		a.log.Warn("no object uses mesh", zap.String("path", res.Path))
		resource.Destroy()
		return
	}
	a.log.Info("mesh ready",
		zap.String("path", res.Path),
		zap.Int("objects", n),
		zap.Int("parts", len(resource.Parts())),
		zap.Int("textures", len(textures)),
	)
}

// pollShaders reloads programs whose sources changed on disk.
func (a *App) pollShaders() {
	if a.watcher == nil {
		return
	}
	changed := make(map[string]bool)
drain:
	for {
		select {
		case file := <-a.watcher.Changes():
			if name, ok := shaders.ProgramFor(file); ok {
				changed[name] = true
			}
		default:
			break drain
		}
	}
	for name := range changed {
		a.reload(name)
	}
}

func (a *App) reload(name string) {
	src, err := shaders.Load(a.cfg.Shaders.Dir, name)
	if err != nil {
		a.log.Error("reading shader sources", zap.String("program", name), zap.Error(err))
		return
	}
	if err := a.renderer.Reload(name, src); err != nil {
		a.log.Error("shader reload failed, keeping previous program",
			zap.String("program", name), zap.Error(err))
	}
}

// Close cleans up viewer resources.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.cancel != nil {
		a.cancel()
	}
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing shader watcher", zap.Error(err))
		}
	}
	a.scene.Destroy()
	if a.renderer != nil {
		a.renderer.Close()
	}
	a.assets.Close()
	if a.win != nil {
		a.win.Close()
	}
}
