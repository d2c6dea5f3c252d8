package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"histeq/internal/equalize"
)

const (
	BackendStdlib = "stdlib"
	BackendOpenCV = "opencv"
)

var (
	backends   = []string{BackendStdlib, BackendOpenCV}
	logLevels  = []string{"trace", "debug", "info", "warn", "warning", "error"}
	extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff"}
)

// Config holds everything a run needs. Zero Workers means one per CPU.
type Config struct {
	Input             string `toml:"input" yaml:"input"`
	Output            string `toml:"output" yaml:"output"`
	SequentialPrefix  string `toml:"sequential_prefix" yaml:"sequential_prefix"`
	ParallelPrefix    string `toml:"parallel_prefix" yaml:"parallel_prefix"`
	Workers           int    `toml:"workers" yaml:"workers"`
	Bins              int    `toml:"bins" yaml:"bins"`
	Rounding          string `toml:"rounding" yaml:"rounding"`
	ParallelHistogram bool   `toml:"parallel_histogram" yaml:"parallel_histogram"`
	Backend           string `toml:"backend" yaml:"backend"`
	JPEGQuality       int    `toml:"jpeg_quality" yaml:"jpeg_quality"`
	LogLevel          string `toml:"log_level" yaml:"log_level"`
	Console           bool   `toml:"console" yaml:"console"`
}

// Default mirrors the constants of the original batch program.
func Default() *Config {
	return &Config{
		Input:            "Rain_Tree.jpg",
		Output:           "Equalized_Image.jpg",
		SequentialPrefix: "SingleThread_",
		ParallelPrefix:   "MultiThread_",
		Workers:          4,
		Bins:             equalize.DefaultBins,
		Rounding:         equalize.RoundTruncate.String(),
		Backend:          BackendStdlib,
		JPEGQuality:      95,
		LogLevel:         "info",
	}
}

// Load reads a TOML or YAML file over the defaults. The format follows the
// file extension.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
		}
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return cfg, nil
}

// Options converts the equalization fields.
func (c *Config) Options() (equalize.Options, error) {
	rounding, err := equalize.ParseRounding(c.Rounding)
	if err != nil {
		return equalize.Options{}, err
	}

	return equalize.Options{
		Bins:              c.Bins,
		Rounding:          rounding,
		ParallelHistogram: c.ParallelHistogram,
	}, nil
}

// EffectiveWorkers resolves Workers == 0 to the CPU count.
func (c *Config) EffectiveWorkers() int {
	if c.Workers == 0 {
		return equalize.DefaultWorkers()
	}
	return c.Workers
}

func (c *Config) Validate() error {
	var problems []string

	if c.Input == "" {
		problems = append(problems, "input path is required")
	}
	if c.Output == "" {
		problems = append(problems, "output path is required")
	} else if ext := strings.ToLower(filepath.Ext(c.Output)); !lo.Contains(extensions, ext) {
		problems = append(problems, fmt.Sprintf("unsupported output extension %q", ext))
	}
	if c.SequentialPrefix == c.ParallelPrefix {
		problems = append(problems, "sequential and parallel prefixes must differ")
	}
	if c.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers must be >= 0, got %d", c.Workers))
	}
	if c.Bins < equalize.MinBins || c.Bins > equalize.MaxBins {
		problems = append(problems, fmt.Sprintf("bins must be in [%d, %d], got %d", equalize.MinBins, equalize.MaxBins, c.Bins))
	}
	if _, err := equalize.ParseRounding(c.Rounding); err != nil {
		problems = append(problems, err.Error())
	}
	if !lo.Contains(backends, c.Backend) {
		problems = append(problems, fmt.Sprintf("unknown backend %q (want one of %s)", c.Backend, strings.Join(backends, ", ")))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		problems = append(problems, fmt.Sprintf("jpeg quality must be in [1, 100], got %d", c.JPEGQuality))
	}
	if !lo.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// OutputPaths applies the prefixes to the base name of Output, keeping its
// directory.
func (c *Config) OutputPaths() (sequential, parallel string) {
	dir, base := filepath.Split(c.Output)
	return filepath.Join(dir, c.SequentialPrefix+base), filepath.Join(dir, c.ParallelPrefix+base)
}
