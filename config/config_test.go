package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[window]
title = "pentagon"
width = 800
height = 600
vsync = false
frame_limit = 120.0
clear = [0.0, 0.5, 1.0, 1.0]

[render]
force_fallback_adapter = true
max_bind_groups = 6
workers = 2

[log]
level = "debug"
prefix = "demo"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "pentagon", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, 120.0, cfg.Window.FrameLimit)
	assert.Equal(t, wgpu.Color{G: 0.5, B: 1, A: 1}, cfg.ClearColor())

	// Omitted fields keep their defaults.
	assert.Equal(t, 320, cfg.Window.MinWidth)
	assert.Equal(t, "oxy-bind device", cfg.Render.DeviceLabel)

	assert.True(t, cfg.Render.ForceFallbackAdapter)
	assert.Equal(t, uint32(6), cfg.Render.MaxBindGroups)
	assert.Equal(t, 2, cfg.Render.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseEmptyIsDefault(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "[window]\nfullscreen = true\n"},
		{"unknown section", "[audio]\nvolume = 1\n"},
		{"syntax", "[window\n"},
		{"wrong type", "[window]\nwidth = \"wide\"\n"},
		{"zero size", "[window]\nwidth = 0\n"},
		{"min over max", "[window]\nmin_width = 4000\n"},
		{"negative frame limit", "[window]\nframe_limit = -1.0\n"},
		{"clear out of range", "[window]\nclear = [2.0, 0.0, 0.0, 1.0]\n"},
		{"negative workers", "[render]\nworkers = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pentagon", cfg.Window.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.WindowOptions(), 7)
	assert.Len(t, cfg.RenderContextOptions(), 2)
	cfg.Render.MaxBindGroups = 8
	assert.Len(t, cfg.RenderContextOptions(), 3)
	assert.Len(t, cfg.AppOptions(), 7)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	var buf bytes.Buffer
	l := cfg.Logger(&buf)
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
