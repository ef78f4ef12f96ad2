package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/surfview/internal/logger"
	"github.com/Faultbox/surfview/pkg/surface"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 800 || cfg.Window.Height != 800 {
		t.Errorf("expected 800x800 window, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Surface.Min != -180 || cfg.Surface.Max != 180 {
		t.Errorf("expected range [-180, 180], got [%v, %v]", cfg.Surface.Min, cfg.Surface.Max)
	}
	if cfg.Surface.Step != 0.5 {
		t.Errorf("expected step 0.5, got %v", cfg.Surface.Step)
	}
	if cfg.Surface.H != 0.0001 {
		t.Errorf("expected h 0.0001, got %v", cfg.Surface.H)
	}
	if cfg.Surface.Derivative != "legacy" {
		t.Errorf("expected legacy derivative, got %s", cfg.Surface.Derivative)
	}

	if cfg.Shading.Shininess != 2 {
		t.Errorf("expected shininess 2, got %v", cfg.Shading.Shininess)
	}
	if cfg.Shading.Ambient != [3]float32{0.2, 0.1, 0} {
		t.Errorf("expected ambient (0.2, 0.1, 0), got %v", cfg.Shading.Ambient)
	}

	if cfg.Texture.Path != "" {
		t.Errorf("expected no texture, got %s", cfg.Texture.Path)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

surface:
  step: 2
  derivative: radians

shading:
  shininess: 8
  color: [0.5, 0.5, 1, 1]

camera:
  inertia: false

texture:
  path: "earth.png"
  max_size: 512

logging:
  level: "debug"
  log_file: "surfview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
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

	if cfg.Surface.Step != 2 {
		t.Errorf("expected step 2, got %v", cfg.Surface.Step)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Surface.Min != -180 {
		t.Errorf("expected min to stay -180, got %v", cfg.Surface.Min)
	}

	if cfg.Shading.Shininess != 8 {
		t.Errorf("expected shininess 8, got %v", cfg.Shading.Shininess)
	}
	if cfg.Shading.Color != [4]float32{0.5, 0.5, 1, 1} {
		t.Errorf("expected color (0.5, 0.5, 1, 1), got %v", cfg.Shading.Color)
	}

	if cfg.Camera.Inertia {
		t.Error("expected inertia to be false")
	}

	if cfg.Texture.Path != "earth.png" || cfg.Texture.MaxSize != 512 {
		t.Errorf("expected earth.png at 512, got %s at %d", cfg.Texture.Path, cfg.Texture.MaxSize)
	}

	if cfg.Logging.LogFile != "surfview.log" {
		t.Errorf("expected log file 'surfview.log', got %s", cfg.Logging.LogFile)
	}

	p, err := cfg.SurfaceParams()
	if err != nil {
		t.Fatalf("SurfaceParams: %v", err)
	}
	if p.Derivative != surface.DerivativeRadians {
		t.Errorf("expected radians derivative, got %v", p.Derivative)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
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

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"zero step", func(c *Config) { c.Surface.Step = 0 }},
		{"step too fine", func(c *Config) { c.Surface.Step = 1e-7 }},
		{"inverted range", func(c *Config) { c.Surface.Min, c.Surface.Max = 10, -10 }},
		{"unknown derivative", func(c *Config) { c.Surface.Derivative = "degrees" }},
		{"negative texture size", func(c *Config) { c.Texture.MaxSize = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLightingAndTrackball(t *testing.T) {
	cfg := Default()
	cfg.Shading.Diffuse = [3]float32{0, 1, 1}
	cfg.Camera.Damping = 0.5

	if got := cfg.Lighting().Diffuse; got != [3]float32{0, 1, 1} {
		t.Errorf("Lighting().Diffuse = %v, want (0, 1, 1)", got)
	}
	tb := cfg.Trackball()
	if tb.Damping != 0.5 {
		t.Errorf("Trackball().Damping = %v, want 0.5", tb.Damping)
	}
	if tb.FPS != 60 {
		t.Errorf("Trackball().FPS = %d, want 60", tb.FPS)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "texture flag",
			setup: func() { *flagTexture = "moon.jpg" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Texture.Path != "moon.jpg" {
					t.Errorf("expected texture moon.jpg, got %s", cfg.Texture.Path)
				}
			},
			teardown: func() { *flagTexture = "" },
		},
		{
			name: "step and derivative flags",
			setup: func() {
				*flagStep = 5
				*flagDerivative = "radians"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Surface.Step != 5 {
					t.Errorf("expected step 5, got %v", cfg.Surface.Step)
				}
				if cfg.Surface.Derivative != "radians" {
					t.Errorf("expected radians derivative, got %s", cfg.Surface.Derivative)
				}
			},
			teardown: func() {
				*flagStep = 0
				*flagDerivative = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
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

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file.
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
	if cfg.Source != configPath {
		t.Errorf("source = %q, want %q", cfg.Source, configPath)
	}
}

func TestLogSource(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = prev }()

	tests := []struct {
		source  string
		wantMsg string
	}{
		{"/etc/surfview/config.yaml", "config loaded"},
		{"", "no config file, using defaults"},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Source = tt.source
		cfg.LogSource()

		entries := logs.TakeAll()
		if len(entries) != 1 || entries[0].Message != tt.wantMsg {
			t.Fatalf("source %q logged %v, want %q", tt.source, entries, tt.wantMsg)
		}
		if tt.source != "" && entries[0].ContextMap()["path"] != tt.source {
			t.Errorf("path field = %v, want %s", entries[0].ContextMap()["path"], tt.source)
		}
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("surface:\n  step: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Surface.Step = 1.5
	cfg.Texture.Path = "grid.bmp"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Surface.Step != 1.5 || loaded.Texture.Path != "grid.bmp" {
		t.Errorf("round trip lost values: step %v, texture %s", loaded.Surface.Step, loaded.Texture.Path)
	}
}

func TestSave(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	path, err := Default().Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}
