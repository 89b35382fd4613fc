// Package config loads run settings from a YAML file and merges CLI flag
// overrides into them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds output locations and processing settings.
type Config struct {
	// Paths
	BaseDir     string `yaml:"base_dir"`
	OutputDir   string `yaml:"output_dir"`
	TextureDir  string `yaml:"texture_dir"`
	MetricsFile string `yaml:"metrics_file"`

	// Processing
	Workers    int    `yaml:"workers"`
	Derive     *bool  `yaml:"derive_tangents"` // nil means true
	BestEffort bool   `yaml:"best_effort"`
	Indent     *int   `yaml:"indent"` // nil means 4
	SaveFormat string `yaml:"save_format"`

	Preview Preview `yaml:"preview"`
}

// Preview holds thumbnail settings. An empty Format disables previews in
// batch runs.
type Preview struct {
	Format      string  `yaml:"format"`
	Size        int     `yaml:"size"`
	Supersample int     `yaml:"supersample"`
	Source      string  `yaml:"source"`
	Channel     string  `yaml:"channel"`
	Yaw         float64 `yaml:"yaw"`
	Pitch       float64 `yaml:"pitch"`
}

// Load reads a YAML config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir     string
	TextureDir    string
	MetricsFile   string
	Workers       int
	BestEffort    bool
	NoDerive      bool
	Indent        int // negative: not given
	SaveFormat    string
	PreviewFormat string
	PreviewSize   int
	PreviewSource string
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.MetricsFile != "" {
		c.MetricsFile = flags.MetricsFile
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.BestEffort {
		c.BestEffort = true
	}
	if flags.NoDerive {
		off := false
		c.Derive = &off
	}
	if flags.Indent >= 0 {
		indent := flags.Indent
		c.Indent = &indent
	}
	if flags.SaveFormat != "" {
		c.SaveFormat = flags.SaveFormat
	}
	if flags.PreviewFormat != "" {
		c.Preview.Format = flags.PreviewFormat
	}
	if flags.PreviewSize > 0 {
		c.Preview.Size = flags.PreviewSize
	}
	if flags.PreviewSource != "" {
		c.Preview.Source = flags.PreviewSource
	}

	// Relative paths from a config file are taken against its directory
	c.OutputDir = c.abs(c.OutputDir)
	c.TextureDir = c.abs(c.TextureDir)
	c.MetricsFile = c.abs(c.MetricsFile)

	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.Derive == nil {
		on := true
		c.Derive = &on
	}
	if c.Indent == nil {
		indent := 4
		c.Indent = &indent
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	// Defaults for preview settings
	if c.Preview.Size <= 0 {
		c.Preview.Size = 256
	}
	if c.Preview.Supersample <= 0 {
		c.Preview.Supersample = 2
	}
	if c.Preview.Source == "" {
		c.Preview.Source = "shaded"
	}
	if c.Preview.Yaw == 0 && c.Preview.Pitch == 0 {
		c.Preview.Yaw, c.Preview.Pitch = 30, 20
	}
}

// DeriveTangents reports whether the tangent pass runs.
func (c *Config) DeriveTangents() bool {
	return c.Derive == nil || *c.Derive
}

// JSONIndent returns the configured indent width.
func (c *Config) JSONIndent() int {
	if c.Indent == nil {
		return 4
	}
	return *c.Indent
}

func (c *Config) abs(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
