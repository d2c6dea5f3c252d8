package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"histeq/internal/equalize"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Rain_Tree.jpg", cfg.Input)
	assert.Equal(t, "Equalized_Image.jpg", cfg.Output)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 256, cfg.Bins)
	assert.Equal(t, "truncate", cfg.Rounding)
	require.NoError(t, cfg.Validate())

	seq, par := cfg.OutputPaths()
	assert.Equal(t, "SingleThread_Equalized_Image.jpg", seq)
	assert.Equal(t, "MultiThread_Equalized_Image.jpg", par)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "histeq.toml", `
input = "in.png"
output = "out/result.png"
workers = 8
rounding = "nearest"
parallel_histogram = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "in.png", cfg.Input)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.ParallelHistogram)
	// Unset keys keep their defaults.
	assert.Equal(t, 256, cfg.Bins)
	assert.Equal(t, "SingleThread_", cfg.SequentialPrefix)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, equalize.RoundNearest, opts.Rounding)
	assert.True(t, opts.ParallelHistogram)

	seq, par := cfg.OutputPaths()
	assert.Equal(t, filepath.Join("out", "SingleThread_result.png"), seq)
	assert.Equal(t, filepath.Join("out", "MultiThread_result.png"), par)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "histeq.yaml", "bins: 64\nbackend: opencv\njpeg_quality: 80\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Bins)
	assert.Equal(t, BackendOpenCV, cfg.Backend)
	assert.Equal(t, 80, cfg.JPEGQuality)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "conf.json", "{}"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, "bad.toml", "workers = \"many\""))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "extra.toml", "threads = 4"))
	assert.ErrorContains(t, err, "unknown keys")

	_, err = Load(writeFile(t, "extra.yaml", "threads: 4\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing input", func(c *Config) { c.Input = "" }, "input path is required"},
		{"bad extension", func(c *Config) { c.Output = "out.gif" }, "unsupported output extension"},
		{"same prefixes", func(c *Config) { c.ParallelPrefix = c.SequentialPrefix }, "prefixes must differ"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers must be >= 0"},
		{"too many bins", func(c *Config) { c.Bins = 512 }, "bins must be in"},
		{"rounding", func(c *Config) { c.Rounding = "ceil" }, "unknown rounding mode"},
		{"backend", func(c *Config) { c.Backend = "gpu" }, "unknown backend"},
		{"quality", func(c *Config) { c.JPEGQuality = 0 }, "jpeg quality"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestEffectiveWorkers(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.EffectiveWorkers())

	cfg.Workers = 0
	assert.Equal(t, equalize.DefaultWorkers(), cfg.EffectiveWorkers())
}
