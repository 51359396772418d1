// Package config handles viewer and tool configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/Faultbox/scop/pkg/encoding"
)

// Config holds all settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Loader  LoaderConfig  `yaml:"loader"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig holds window, projection and camera settings for the interactive viewer.
type ViewerConfig struct {
	Width         int      `yaml:"width"`
	Height        int      `yaml:"height"`
	Fullscreen    bool     `yaml:"fullscreen"`
	VSync         bool     `yaml:"vsync"`
	FOV           float32  `yaml:"fov"` // vertical, degrees
	Near          float32  `yaml:"near"`
	Far           float32  `yaml:"far"`
	RotationSpeed float32  `yaml:"rotation_speed"` // radians per second
	MoveSpeed     float32  `yaml:"move_speed"`     // units per second
	Textures      []string `yaml:"textures"`       // texture1, texture2
}

// LoaderConfig holds OBJ loading settings.
type LoaderConfig struct {
	Encoding string `yaml:"encoding"` // utf-8, utf-16 or euc-kr
}

// RenderConfig holds headless thumbnail settings.
type RenderConfig struct {
	Size       int     `yaml:"size"`
	Distance   float32 `yaml:"distance"`
	Format     string  `yaml:"format"`     // webp, png or bmp
	Background string  `yaml:"background"` // #rrggbb
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Width:         800,
			Height:        600,
			Fullscreen:    false,
			VSync:         true,
			FOV:           45,
			Near:          0.1,
			Far:           100,
			RotationSpeed: 1,
			MoveSpeed:     2.5,
			Textures:      []string{"resources/texture1.png", "resources/texture2.png"},
		},
		Loader: LoaderConfig{
			Encoding: encoding.UTF8,
		},
		Render: RenderConfig{
			Size:       512,
			Distance:   3,
			Format:     "webp",
			Background: "#334d4d",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	v := c.Viewer
	switch {
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Errorf("viewer: invalid window size %dx%d", v.Width, v.Height)
	case v.FOV <= 0 || v.FOV >= 180:
		return fmt.Errorf("viewer: fov %g out of range (0, 180)", v.FOV)
	case v.Near <= 0 || v.Far <= v.Near:
		return fmt.Errorf("viewer: invalid clip planes near=%g far=%g", v.Near, v.Far)
	}

	if err := encoding.Check(c.Loader.Encoding); err != nil {
		return fmt.Errorf("loader: %w", err)
	}

	if c.Render.Size <= 0 {
		return fmt.Errorf("render: invalid size %d", c.Render.Size)
	}
	if c.Render.Distance <= 0 {
		return fmt.Errorf("render: invalid distance %g", c.Render.Distance)
	}
	switch c.Render.Format {
	case "webp", "png", "bmp":
	default:
		return fmt.Errorf("render: unknown format %q", c.Render.Format)
	}
	if _, err := c.Render.BackgroundColor(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// BackgroundColor parses the #rrggbb background setting.
func (r RenderConfig) BackgroundColor() (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(r.Background, "#")
	if !ok || len(hex) != 6 {
		return color.NRGBA{}, errors.New("background must be #rrggbb")
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("background %q: %w", r.Background, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
