package config

import "flag"

// Command-line overrides. Zero values mean "not given".
var (
	flagConfig  = flag.String("config", "", "read settings from this YAML `file`")
	flagWrite   = flag.String("write-config", "", "write the effective settings to `file` and exit")
	flagDebug   = flag.Bool("debug", false, "debug logging and FPS in the title bar")
	flagBackend = flag.String("backend", "", "window backend: sdl or glfw")
	flagAssets  = flag.String("assets", "", "asset root `dir`ectory")

	flagWidth      = flag.Int("width", 0, "window width in pixels")
	flagHeight     = flag.Int("height", 0, "window height in pixels")
	flagFullscreen = flag.Bool("fullscreen", false, "start fullscreen")
	flagWindowed   = flag.Bool("windowed", false, "start windowed, overriding the file")
)

// ParseFlags parses os.Args. It must run before Load.
func ParseFlags() {
	flag.Parse()
}

// ConfigPath is the -config value.
func ConfigPath() string { return *flagConfig }

// WritePath is the -write-config value.
func WritePath() string { return *flagWrite }

func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Graphics.ShowFPS = true
	}

	switch {
	case *flagFullscreen:
		cfg.Window.Fullscreen = true
	case *flagWindowed:
		cfg.Window.Fullscreen = false
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagBackend != "" {
		cfg.Window.Backend = *flagBackend
	}

	if *flagAssets != "" {
		cfg.Assets.Root = *flagAssets
	}
}
