package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Graphics
	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if cfg.Graphics.Stars != 5000 {
		t.Errorf("expected 5000 stars, got %d", cfg.Graphics.Stars)
	}

	// Globe and camera
	if cfg.Globe.Radius != 5 {
		t.Errorf("expected radius 5, got %f", cfg.Globe.Radius)
	}
	if cfg.Camera.Distance != 14 || cfg.Camera.MinDistance != 7 || cfg.Camera.MaxDistance != 20 {
		t.Errorf("unexpected camera distances: %+v", cfg.Camera)
	}

	// Rotation profile
	if cfg.Rotation.InitialSpeed != 20 || cfg.Rotation.CruiseSpeed != 0.8 {
		t.Errorf("unexpected rotation speeds: %+v", cfg.Rotation)
	}
	if cfg.Rotation.SpinDuration != 3 || cfg.Rotation.DecayRate != 1.5 {
		t.Errorf("unexpected rotation timing: %+v", cfg.Rotation)
	}

	// News
	if cfg.News.Model != "gemini-2.5-flash" {
		t.Errorf("expected model gemini-2.5-flash, got %s", cfg.News.Model)
	}
	if cfg.News.Count != 12 {
		t.Errorf("expected 12 items, got %d", cfg.News.Count)
	}
	if cfg.News.APIKey != "" {
		t.Error("expected no API key by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  stars: 2000

globe:
  radius: 6
  seed: 42

camera:
  max_distance: 25

rotation:
  cruise_speed: 1.2

callout:
  altitude_min: 1.4
  altitude_max: 1.6
  arm_min: 0.2
  arm_max: 0.4

news:
  count: 8
  fetch_timeout: 30s
  refresh_interval: 10m

logging:
  level: "debug"
  log_file: "globalpulse.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || !cfg.Graphics.Fullscreen || cfg.Graphics.Stars != 2000 {
		t.Errorf("graphics not loaded: %+v", cfg.Graphics)
	}
	if cfg.Globe.Radius != 6 || cfg.Globe.Seed != 42 {
		t.Errorf("globe not loaded: %+v", cfg.Globe)
	}
	// Unset keys keep their defaults.
	if cfg.Globe.Tilt != 0.2 {
		t.Errorf("expected default tilt 0.2, got %f", cfg.Globe.Tilt)
	}
	if cfg.Camera.MaxDistance != 25 || cfg.Camera.MinDistance != 7 {
		t.Errorf("camera not merged: %+v", cfg.Camera)
	}
	if cfg.Rotation.CruiseSpeed != 1.2 || cfg.Rotation.InitialSpeed != 20 {
		t.Errorf("rotation not merged: %+v", cfg.Rotation)
	}
	if cfg.Callout.AltitudeMin != 1.4 || cfg.Callout.ArmMax != 0.4 {
		t.Errorf("callout not loaded: %+v", cfg.Callout)
	}
	if cfg.News.Count != 8 {
		t.Errorf("expected count 8, got %d", cfg.News.Count)
	}
	if cfg.News.FetchTimeout != 30*time.Second {
		t.Errorf("expected fetch timeout 30s, got %v", cfg.News.FetchTimeout)
	}
	if cfg.News.RefreshInterval != 10*time.Minute {
		t.Errorf("expected refresh interval 10m, got %v", cfg.News.RefreshInterval)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "globalpulse.log" {
		t.Errorf("logging not loaded: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
globe:
  radius: not a number
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
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero radius", func(c *Config) { c.Globe.Radius = 0 }, "globe.radius"},
		{"negative radius", func(c *Config) { c.Globe.Radius = -1 }, "globe.radius"},
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "graphics size"},
		{"fov too wide", func(c *Config) { c.Camera.FOV = 180 }, "camera.fov"},
		{"min distance inside globe", func(c *Config) { c.Camera.MinDistance = 4 }, "camera distance"},
		{"inverted distances", func(c *Config) { c.Camera.MaxDistance = 6.5 }, "camera distance"},
		{"zero decay", func(c *Config) { c.Rotation.DecayRate = 0 }, "rotation"},
		{"altitude at surface", func(c *Config) { c.Callout.AltitudeMin = 1 }, "callout"},
		{"inverted arm range", func(c *Config) { c.Callout.ArmMax = 0.1 }, "callout"},
		{"no items", func(c *Config) { c.News.Count = 0 }, "news.count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"none", map[string]string{}, ""},
		{"gemini key", map[string]string{"GEMINI_API_KEY": "g-key"}, "g-key"},
		{"api key fallback", map[string]string{"API_KEY": "a-key"}, "a-key"},
		{"gemini wins", map[string]string{"GEMINI_API_KEY": "g-key", "API_KEY": "a-key"}, "g-key"},
		{"empty gemini skipped", map[string]string{"GEMINI_API_KEY": "", "API_KEY": "a-key"}, "a-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			applyEnv(cfg, func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			})
			if cfg.News.APIKey != tt.want {
				t.Errorf("expected key %q, got %q", tt.want, cfg.News.APIKey)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("GLOBALPULSE_TEST_VAR=from-dotenv\n"), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("GLOBALPULSE_TEST_VAR", "")
	os.Unsetenv("GLOBALPULSE_TEST_VAR")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
	if got := os.Getenv("GLOBALPULSE_TEST_VAR"); got != "from-dotenv" {
		t.Errorf("expected variable from .env, got %q", got)
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
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("config.yaml", []byte("globe:\n  radius: 4\n"), 0644); err != nil {
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
				if !cfg.Graphics.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
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
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "offline and seed flags",
			setup: func() {
				*flagOffline = true
				*flagSeed = 7
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.News.Offline {
					t.Error("expected offline news")
				}
				if cfg.Globe.Seed != 7 {
					t.Errorf("expected seed 7, got %d", cfg.Globe.Seed)
				}
			},
			teardown: func() {
				*flagOffline = false
				*flagSeed = 0
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
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv("GEMINI_API_KEY", "env-key")

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
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
	if cfg.News.APIKey != "env-key" {
		t.Errorf("expected API key from environment, got %q", cfg.News.APIKey)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Globe.Seed = 99
	cfg.News.APIKey = "secret"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("API key must not be written to disk")
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Globe.Seed != 99 {
		t.Errorf("expected seed 99 after reload, got %d", loaded.Globe.Seed)
	}
}
