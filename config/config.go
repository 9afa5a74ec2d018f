// Package config loads the TOML configuration of an app and converts it into builder
// options for the window, render context and app.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned for documents that do not decode or fail validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root of a configuration document.
type Config struct {
	Window WindowConfig `toml:"window"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
}

// WindowConfig configures the window and the frame loop.
type WindowConfig struct {
	Title      string     `toml:"title"`
	Width      int        `toml:"width"`
	Height     int        `toml:"height"`
	MinWidth   int        `toml:"min_width"`
	MinHeight  int        `toml:"min_height"`
	MaxWidth   int        `toml:"max_width"`
	MaxHeight  int        `toml:"max_height"`
	VSync      bool       `toml:"vsync"`
	FrameLimit float64    `toml:"frame_limit"`
	Clear      [4]float64 `toml:"clear"`
}

// RenderConfig configures device acquisition.
type RenderConfig struct {
	ForceFallbackAdapter bool   `toml:"force_fallback_adapter"`
	MaxBindGroups        uint32 `toml:"max_bind_groups"`
	DeviceLabel          string `toml:"device_label"`
	Workers              int    `toml:"workers"`
	Profiling            bool   `toml:"profiling"`
}

// LogConfig configures the console logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Prefix string `toml:"prefix"`
}

// Default returns the configuration used for fields a document leaves out.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "oxy-bind",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 200,
			MaxWidth:  3840,
			MaxHeight: 2160,
			VSync:     true,
			Clear:     [4]float64{0.1, 0.2, 0.3, 1},
		},
		Render: RenderConfig{
			DeviceLabel: "oxy-bind device",
			Workers:     4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads and parses the file at path.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Config: the configuration over Default
//   - error: read error, or ErrInvalidConfig
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a TOML document over Default. Unknown keys are rejected.
//
// Parameters:
//   - data: the document
//
// Returns:
//   - Config: the validated configuration
//   - error: ErrInvalidConfig wrapping the decode or validation failure
func Parse(data []byte) (Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode is Parse for a reader.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.TrimSpace(strict.String()))
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes and ranges.
//
// Returns:
//   - error: ErrInvalidConfig naming the first bad field
func (c Config) Validate() error {
	w := c.Window
	switch {
	case w.Width <= 0 || w.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, w.Width, w.Height)
	case w.MinWidth > w.MaxWidth || w.MinHeight > w.MaxHeight:
		return fmt.Errorf("%w: window min size exceeds max size", ErrInvalidConfig)
	case w.FrameLimit < 0:
		return fmt.Errorf("%w: frame_limit %v", ErrInvalidConfig, w.FrameLimit)
	}
	for _, v := range w.Clear {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear component %v outside [0, 1]", ErrInvalidConfig, v)
		}
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Render.Workers)
	}
	return nil
}

// ClearColor returns the window clear color.
func (c Config) ClearColor() wgpu.Color {
	v := c.Window.Clear
	return wgpu.Color{R: v[0], G: v[1], B: v[2], A: v[3]}
}

// WindowOptions converts the window section into window builder options.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	w := c.Window
	return []window.WindowBuilderOption{
		window.WithTitle(w.Title),
		window.WithWidth(w.Width),
		window.WithHeight(w.Height),
		window.WithMinWidth(w.MinWidth),
		window.WithMinHeight(w.MinHeight),
		window.WithMaxWidth(w.MaxWidth),
		window.WithMaxHeight(w.MaxHeight),
	}
}

// RenderContextOptions converts the render section into render context builder options.
func (c Config) RenderContextOptions() []gpu.RenderContextBuilderOption {
	r := c.Render
	opts := []gpu.RenderContextBuilderOption{
		gpu.WithForceFallbackAdapter(r.ForceFallbackAdapter),
		gpu.WithDeviceLabel(r.DeviceLabel),
	}
	if r.MaxBindGroups > 0 {
		opts = append(opts, gpu.WithMaxBindGroups(r.MaxBindGroups))
	}
	return opts
}

// AppOptions converts the whole document into app builder options.
func (c Config) AppOptions() []engine.AppBuilderOption {
	mode := window.PresentModeUncapped
	if c.Window.VSync {
		mode = window.PresentModeVSync
	}
	return []engine.AppBuilderOption{
		engine.WithWindowOptions(c.WindowOptions()...),
		engine.WithRenderContextOptions(c.RenderContextOptions()...),
		engine.WithPresentMode(mode),
		engine.WithFrameLimit(c.Window.FrameLimit),
		engine.WithClearColor(c.ClearColor()),
		engine.WithWorkers(c.Render.Workers),
		engine.WithProfiling(c.Render.Profiling),
	}
}

// Logger builds the console logger of the log section, writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return common.NewConsoleLogger(w, common.ParseLevel(c.Log.Level), c.Log.Prefix)
}
