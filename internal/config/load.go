package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load builds the effective configuration. Defaults are overlaid by the
// config file, if one is found, and then by command-line flags. The result
// is validated before it is returned.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file: the working
// directory wins over DefaultPath. Empty if neither exists.
func findConfigFile() string {
	for _, p := range [...]string{"config.yaml", DefaultPath()} {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// ConfigDir is the per-user directory holding ssrview's config file.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		// No HOME or platform equivalent; use the working directory.
		base, _ = filepath.Abs(".")
	}
	return filepath.Join(base, "ssrview")
}

// loadFromFile decodes path over cfg. Keys absent from the file keep their
// current values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate rejects settings the viewer cannot start with.
func (c *Config) Validate() error {
	switch c.Window.Backend {
	case "", "sdl", "glfw":
	default:
		return fmt.Errorf("window.backend: unknown backend %q", c.Window.Backend)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window: size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera: need 0 < near < far, got near=%g far=%g", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		return fmt.Errorf("camera.fov_deg: %g out of range (0, 180)", c.Camera.FOVDegrees)
	}
	if c.Assets.MaxParallelImages < 1 {
		c.Assets.MaxParallelImages = 1
	}
	for i, obj := range c.Scene.Objects {
		if obj.Mesh == "" {
			return fmt.Errorf("scene.objects[%d]: mesh is required", i)
		}
	}
	return nil
}
