// Package config loads iconsuite settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/szxp/iconsuite"
)

// Config is the on-disk configuration. Zero values fall back to Default().
type Config struct {
	Sizes       []int         `toml:"sizes" yaml:"sizes"`
	CustomSizes []int         `toml:"custom_sizes" yaml:"custom_sizes"`
	Filter      string        `toml:"filter" yaml:"filter"`
	MaxPixels   int           `toml:"max_pixels" yaml:"max_pixels"`
	MaxSide     int           `toml:"max_side" yaml:"max_side"`
	Compression string        `toml:"compression" yaml:"compression"`
	Output      OutputConfig  `toml:"output" yaml:"output"`
	Preview     PreviewConfig `toml:"preview" yaml:"preview"`
	Log         LogConfig     `toml:"log" yaml:"log"`
}

type OutputConfig struct {
	Dir      string `toml:"dir" yaml:"dir"`
	Bundle   string `toml:"bundle" yaml:"bundle"`
	Password string `toml:"password" yaml:"password"`
	Favicon  bool   `toml:"favicon" yaml:"favicon"`
}

type PreviewConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Filters accepted in Config.Filter.
const (
	FilterLanczos     = "lanczos"
	FilterImageMagick = "imagemagick"
)

func Default() Config {
	return Config{
		Sizes:       iconsuite.DefaultTargetSizes(),
		Filter:      iconsuite.FilterCatmullRom,
		MaxPixels:   iconsuite.DefaultMaxPixels,
		MaxSide:     iconsuite.DefaultMaxSurfaceSide,
		Compression: "default",
		Output: OutputConfig{
			Dir: "icons",
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// Load reads path on top of Default(). The format is chosen by extension:
// .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields that cannot be fixed by a default.
func (c *Config) Validate() error {
	if len(c.Sizes) == 0 {
		return fmt.Errorf("sizes must not be empty")
	}
	if _, err := c.Targets(); err != nil {
		return err
	}
	switch c.Filter {
	case "", iconsuite.FilterCatmullRom, iconsuite.FilterBiLinear, iconsuite.FilterApproxBiLinear,
		FilterLanczos, FilterImageMagick:
	default:
		return fmt.Errorf("unknown filter %q", c.Filter)
	}
	if _, err := iconsuite.CompressionLevel(c.Compression); err != nil {
		return err
	}
	if c.MaxPixels < 0 || c.MaxSide < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	return nil
}

// Targets merges Sizes and CustomSizes into a TargetSizes.
func (c *Config) Targets() (iconsuite.TargetSizes, error) {
	return iconsuite.NewTargetSizes(iconsuite.MergeSizes(c.Sizes, c.CustomSizes))
}
