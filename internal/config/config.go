// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Camera     CameraConfig     `yaml:"camera"`
	Reflection ReflectionConfig `yaml:"reflection"`
	Assets     AssetsConfig     `yaml:"assets"`
	Shaders    ShadersConfig    `yaml:"shaders"`
	Scene      SceneConfig      `yaml:"scene"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds window and context settings.
type WindowConfig struct {
	Backend    string `yaml:"backend"` // "sdl" or "glfw"
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// GraphicsConfig holds frame settings.
type GraphicsConfig struct {
	ShowFPS       bool       `yaml:"show_fps"`
	UseTexture    bool       `yaml:"use_texture"`
	Background    [3]float32 `yaml:"background"`
	ScreenshotDir string     `yaml:"screenshot_dir"` // where the P key saves frames
}

// CameraConfig holds the initial camera placement and tuning.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Target      [3]float32 `yaml:"target"`
	Speed       float32    `yaml:"speed"`
	RotateSpeed float32    `yaml:"rotate_speed"`
	FOVDegrees  float32    `yaml:"fov_deg"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Orbit       bool       `yaml:"orbit"` // false gives a fixed camera
}

// ReflectionConfig tunes the composite pass.
type ReflectionConfig struct {
	FresnelF0    float32 `yaml:"fresnel_f0"`
	FadeExponent float32 `yaml:"fade_exponent"`
}

// AssetsConfig holds where meshes and textures come from.
type AssetsConfig struct {
	Root              string `yaml:"root"`
	MaxParallelImages int    `yaml:"max_parallel_images"`
}

// ShadersConfig controls shader source overrides and hot reload.
type ShadersConfig struct {
	Dir       string `yaml:"dir"` // empty uses the built-in sources
	HotReload bool   `yaml:"hot_reload"`
}

// SceneConfig lists the objects to place.
type SceneConfig struct {
	Objects []ObjectConfig `yaml:"objects"`
}

// ObjectConfig places one mesh.
type ObjectConfig struct {
	Name         string     `yaml:"name"`
	Mesh         string     `yaml:"mesh"`
	Position     [3]float32 `yaml:"position"`
	Rotation     [3]float32 `yaml:"rotation"` // degrees
	Scale        [3]float32 `yaml:"scale"`
	Reflectivity float32    `yaml:"reflectivity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Backend:    "sdl",
			Title:      "ssrview",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Graphics: GraphicsConfig{
			ShowFPS:       false,
			UseTexture:    true,
			Background:    [3]float32{0.2, 0.2, 0.25},
			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 1, 5},
			Target:      [3]float32{0, 1, 0},
			Speed:       0.5,
			RotateSpeed: 0.001,
			FOVDegrees:  90,
			Near:        0.1,
			Far:         100,
			Orbit:       true,
		},
		Reflection: ReflectionConfig{
			FresnelF0:    0.04,
			FadeExponent: 8,
		},
		Assets: AssetsConfig{
			Root:              "assets",
			MaxParallelImages: 4,
		},
		Shaders: ShadersConfig{
			Dir:       "",
			HotReload: false,
		},
		Scene: SceneConfig{
			Objects: []ObjectConfig{
				{
					Name:         "floor",
					Mesh:         "models/floor.obj",
					Scale:        [3]float32{10, 1, 10},
					Reflectivity: 0.8,
				},
				{
					Name:         "box",
					Mesh:         "models/box.obj",
					Position:     [3]float32{0, 0.5, 0},
					Rotation:     [3]float32{0, 30, 0},
					Scale:        [3]float32{1, 1, 1},
					Reflectivity: 0.1,
				},
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}
