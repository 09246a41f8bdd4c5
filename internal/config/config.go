// Package config loads layout settings from TOML or YAML files with an
// SDFGLAYOUT_* environment overlay.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/matzehuels/sdfglayout/pkg/cache"
	"github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/pipeline"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SDFGLAYOUT_"

// Config holds the layout settings shared by every command.
type Config struct {
	OmitAccessNodes     bool    `koanf:"omit_access_nodes" yaml:"omit_access_nodes" toml:"omit_access_nodes"`
	VerticalLayout      bool    `koanf:"vertical_layout" yaml:"vertical_layout" toml:"vertical_layout"`
	Engine              string  `koanf:"engine" yaml:"engine" toml:"engine"`
	LargeStateThreshold int     `koanf:"large_state_threshold" yaml:"large_state_threshold" toml:"large_state_threshold"`
	Measurer            string  `koanf:"measurer" yaml:"measurer" toml:"measurer"`
	FontSize            float64 `koanf:"font_size" yaml:"font_size" toml:"font_size"`
	WriteBack           bool    `koanf:"write_back" yaml:"write_back" toml:"write_back"`
	MeasureCacheSize    int     `koanf:"measure_cache_size" yaml:"measure_cache_size" toml:"measure_cache_size"`
}

// DefaultConfig returns the settings used when no file or override is given.
func DefaultConfig() *Config {
	return &Config{
		Engine:              pipeline.DefaultEngine,
		LargeStateThreshold: pipeline.DefaultLargeStateThreshold,
		Measurer:            pipeline.DefaultMeasurer,
		FontSize:            pipeline.DefaultFontSize,
		MeasureCacheSize:    cache.DefaultMemoryEntries,
	}
}

// Load reads configuration from path, then overlays environment variables
// (SDFGLAYOUT_ENGINE -> engine, etc). A missing file yields the defaults.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if isTOML(path) {
				if _, err := toml.DecodeFile(path, cfg); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
				}
			} else if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "access config %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load env overrides")
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	return cfg, nil
}

// Save writes the configuration to path in the format its extension selects.
func (c *Config) Save(path string) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
		}
		data = buf.Bytes()
	} else {
		out, err := yamlv3.Marshal(c)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
		}
		data = out
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write config %s", path)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if err := pipeline.ValidateEngine(c.Engine); err != nil {
		return err
	}
	if err := pipeline.ValidateMeasurer(c.Measurer); err != nil {
		return err
	}
	if c.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font_size must be positive, got %v", c.FontSize)
	}
	if c.LargeStateThreshold <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "large_state_threshold must be positive, got %d", c.LargeStateThreshold)
	}
	if c.MeasureCacheSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "measure_cache_size must be non-negative")
	}
	return nil
}

// PipelineOptions converts the settings into pass options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		OmitAccessNodes:     c.OmitAccessNodes,
		VerticalLayout:      c.VerticalLayout,
		Engine:              c.Engine,
		LargeStateThreshold: c.LargeStateThreshold,
		Measurer:            c.Measurer,
		FontSize:            c.FontSize,
		WriteBack:           c.WriteBack,
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
