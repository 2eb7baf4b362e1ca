package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Backend != "sdl" {
		t.Errorf("expected backend sdl, got %s", cfg.Window.Backend)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	// Test camera defaults
	if cfg.Camera.Near != 0.1 || cfg.Camera.Far != 100 {
		t.Errorf("expected near/far 0.1/100, got %g/%g", cfg.Camera.Near, cfg.Camera.Far)
	}
	if cfg.Camera.FOVDegrees != 90 {
		t.Errorf("expected fov 90, got %g", cfg.Camera.FOVDegrees)
	}
	if cfg.Camera.Speed != 0.5 {
		t.Errorf("expected speed 0.5, got %g", cfg.Camera.Speed)
	}

	// Test graphics defaults
	if cfg.Graphics.Background != [3]float32{0.2, 0.2, 0.25} {
		t.Errorf("unexpected background %v", cfg.Graphics.Background)
	}
	if !cfg.Graphics.UseTexture {
		t.Error("expected use_texture to be true by default")
	}

	if len(cfg.Scene.Objects) == 0 {
		t.Error("expected a default scene")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  backend: glfw
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

graphics:
  show_fps: true
  use_texture: false
  background: [0, 0, 0]

camera:
  position: [1, 2, 3]
  fov_deg: 60

reflection:
  fresnel_f0: 0.2
  fade_exponent: 2

shaders:
  dir: "./shaders"
  hot_reload: true

scene:
  objects:
    - name: sponza
      mesh: sponza/sponza.obj
      scale: [0.01, 0.01, 0.01]
      reflectivity: 0.5

logging:
  level: "debug"
  log_file: "ssrview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Backend != "glfw" {
		t.Errorf("expected backend glfw, got %s", cfg.Window.Backend)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.UseTexture {
		t.Error("expected use_texture to be false")
	}
	if cfg.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected camera position [1 2 3], got %v", cfg.Camera.Position)
	}
	if cfg.Camera.FOVDegrees != 60 {
		t.Errorf("expected fov 60, got %g", cfg.Camera.FOVDegrees)
	}
	// Fields missing from the file keep their defaults
	if cfg.Camera.Far != 100 {
		t.Errorf("expected far to stay 100, got %g", cfg.Camera.Far)
	}
	if cfg.Reflection.FresnelF0 != 0.2 {
		t.Errorf("expected fresnel 0.2, got %g", cfg.Reflection.FresnelF0)
	}
	if !cfg.Shaders.HotReload || cfg.Shaders.Dir != "./shaders" {
		t.Errorf("unexpected shaders config %+v", cfg.Shaders)
	}

	if len(cfg.Scene.Objects) != 1 {
		t.Fatalf("expected the file to replace the scene, got %d objects", len(cfg.Scene.Objects))
	}
	obj := cfg.Scene.Objects[0]
	if obj.Mesh != "sponza/sponza.obj" || obj.Reflectivity != 0.5 {
		t.Errorf("unexpected object %+v", obj)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "ssrview.log" {
		t.Errorf("expected log file 'ssrview.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Window.Backend = "vulkan" }, "window.backend"},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }, "camera"},
		{"fov too wide", func(c *Config) { c.Camera.FOVDegrees = 180 }, "fov_deg"},
		{"object without mesh", func(c *Config) { c.Scene.Objects[0].Mesh = "" }, "scene.objects[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateClampsParallelism(t *testing.T) {
	cfg := Default()
	cfg.Assets.MaxParallelImages = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Assets.MaxParallelImages != 1 {
		t.Errorf("expected parallelism clamped to 1, got %d", cfg.Assets.MaxParallelImages)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Isolate from any real user config
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Graphics.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "backend and assets flags",
			setup: func() {
				*flagBackend = "glfw"
				*flagAssets = "/data/scenes"
			},
			verify: func(cfg *Config) {
				if cfg.Window.Backend != "glfw" {
					t.Errorf("expected backend glfw, got %s", cfg.Window.Backend)
				}
				if cfg.Assets.Root != "/data/scenes" {
					t.Errorf("expected assets root /data/scenes, got %s", cfg.Assets.Root)
				}
			},
			teardown: func() {
				*flagBackend = ""
				*flagAssets = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  near: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected invalid camera range to fail Load")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Window.Title = "saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	if loaded.Window.Title != "saved" {
		t.Errorf("expected title 'saved', got %s", loaded.Window.Title)
	}
	if len(loaded.Scene.Objects) != len(cfg.Scene.Objects) {
		t.Errorf("expected %d objects, got %d", len(cfg.Scene.Objects), len(loaded.Scene.Objects))
	}
}

func TestSaveToWritesHeaderAndNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := Default().SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	// Overwriting an existing file goes through the same rename.
	if err := Default().SaveTo(path); err != nil {
		t.Fatalf("second SaveTo failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# ssrview configuration") {
		t.Errorf("missing header: %q", string(data[:min(len(data), 60)]))
	}
	if !strings.Contains(string(data), "fresnel_f0: 0.04") {
		t.Errorf("expected reflection settings in output")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only config.yaml, got %d entries", len(entries))
	}
}
