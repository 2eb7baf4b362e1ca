package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fileOnly(level, path string) Options {
	return Options{
		Level: level,
		File:  FileConfig{Path: path, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1},
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(content)
}

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "ssrview.log")

	// 1MB is the smallest size lumberjack rotates at.
	opts := fileOnly("debug", logFile)
	opts.File.MaxSizeMB = 1
	opts.File.MaxBackups = 2
	if err := Init(opts); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	// ~250 bytes per entry, well past 1MB in total.
	payload := strings.Repeat("v", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("frame %d: %s", i, payload)
	}
	Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}

	var current, rotated int
	for _, e := range entries {
		switch name := e.Name(); {
		case name == "ssrview.log":
			current++
		case strings.HasPrefix(name, "ssrview-20") && strings.HasSuffix(name, ".log"):
			rotated++
		}
	}
	if current != 1 {
		t.Errorf("expected the active log file to exist")
	}
	if rotated == 0 {
		t.Errorf("expected at least one rotated file, got entries %v", entries)
	}
}

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		name := tt.level
		if name == "" {
			name = "default"
		}
		t.Run(name, func(t *testing.T) {
			logFile := filepath.Join(dir, name+".log")
			if err := Init(fileOnly(tt.level, logFile)); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			content := readLog(t, logFile)
			for _, exp := range tt.expected {
				if !strings.Contains(content, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(content, exc) {
					t.Errorf("unexpected %s in log output for level %q", exc, tt.level)
				}
			}
		})
	}
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "keep.log")
	if err := Init(fileOnly("info", logFile)); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	if err := Init(fileOnly("verbose", filepath.Join(t.TempDir(), "other.log"))); err == nil {
		t.Fatal("expected an error for level \"verbose\"")
	}

	Info("still here")
	if content := readLog(t, logFile); !strings.Contains(content, "still here") {
		t.Errorf("previous logger was replaced: %q", content)
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/ssrview.log")

	if cfg.Path != "/tmp/ssrview.log" {
		t.Errorf("expected path /tmp/ssrview.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 {
		t.Errorf("unexpected rotation policy %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}

func TestNamedLoggerWritesComponent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")
	if err := Init(fileOnly("debug", logFile)); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Named("mesh").Info("parsed model")

	content := readLog(t, logFile)
	if !strings.Contains(content, "mesh") || !strings.Contains(content, "parsed model") {
		t.Errorf("named logger output missing component: %q", content)
	}
	if !strings.Contains(content, "logger_test.go") {
		t.Errorf("caller should point at the test, got %q", content)
	}
}

func TestNoSinksDiscards(t *testing.T) {
	if err := Init(Options{Level: "info"}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	// Must not panic.
	Info("discarded")
	Named("renderer").Warn("discarded")
	Sync()
}
