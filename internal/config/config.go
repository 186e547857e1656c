// Package config handles application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/globalpulse/pkg/callout"
)

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Globe    GlobeConfig    `yaml:"globe"`
	Camera   CameraConfig   `yaml:"camera"`
	Rotation RotationConfig `yaml:"rotation"`
	Callout  callout.Ranges `yaml:"callout"`
	News     NewsConfig     `yaml:"news"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	Stars      int  `yaml:"stars"`
	ShowFPS    bool `yaml:"show_fps"`
}

// GlobeConfig holds globe geometry settings.
type GlobeConfig struct {
	Radius float32 `yaml:"radius"`
	Tilt   float32 `yaml:"tilt"` // radians about Z
	// Seed for callout parameter draws. Zero picks a time-based seed.
	Seed uint64 `yaml:"seed"`
	// Texture is an optional equirectangular earth image. Empty uses the
	// procedural ocean.
	Texture string `yaml:"texture"`
}

// CameraConfig holds orbit camera settings.
type CameraConfig struct {
	FOV         float32 `yaml:"fov"` // degrees
	Distance    float32 `yaml:"distance"`
	MinDistance float32 `yaml:"min_distance"`
	MaxDistance float32 `yaml:"max_distance"`
	RotateSpeed float32 `yaml:"rotate_speed"`
	Damping     float32 `yaml:"damping"`
}

// RotationConfig holds the auto-rotation speed profile.
type RotationConfig struct {
	InitialSpeed float64 `yaml:"initial_speed"`
	CruiseSpeed  float64 `yaml:"cruise_speed"`
	SpinDuration float64 `yaml:"spin_duration"` // seconds
	DecayRate    float64 `yaml:"decay_rate"`
}

// NewsConfig holds news source settings.
type NewsConfig struct {
	APIKey          string        `yaml:"-"`
	Model           string        `yaml:"model"`
	Count           int           `yaml:"count"`
	Temperature     float32       `yaml:"temperature"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	RefreshInterval time.Duration `yaml:"refresh_interval"` // zero disables periodic refresh
	Offline         bool          `yaml:"offline"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			Stars:      5000,
		},
		Globe: GlobeConfig{
			Radius: 5,
			Tilt:   0.2,
		},
		Camera: CameraConfig{
			FOV:         45,
			Distance:    14,
			MinDistance: 7,
			MaxDistance: 20,
			RotateSpeed: 0.5,
			Damping:     0.1,
		},
		Rotation: RotationConfig{
			InitialSpeed: 20,
			CruiseSpeed:  0.8,
			SpinDuration: 3,
			DecayRate:    1.5,
		},
		Callout: callout.DefaultRanges(),
		News: NewsConfig{
			Model:        "gemini-2.5-flash",
			Count:        12,
			Temperature:  0.4,
			FetchTimeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if c.Globe.Radius <= 0 {
		return fmt.Errorf("globe.radius must be positive, got %v", c.Globe.Radius)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera.fov out of range: %v", c.Camera.FOV)
	}
	if c.Camera.MinDistance <= c.Globe.Radius || c.Camera.MaxDistance < c.Camera.MinDistance {
		return errors.New("camera distance range must lie outside the globe and be ordered")
	}
	if c.Rotation.SpinDuration < 0 || c.Rotation.DecayRate <= 0 {
		return errors.New("rotation spin_duration must be >= 0 and decay_rate > 0")
	}
	if err := c.Callout.Validate(); err != nil {
		return fmt.Errorf("callout: %w", err)
	}
	if c.News.Count <= 0 {
		return fmt.Errorf("news.count must be positive, got %d", c.News.Count)
	}
	return nil
}
