// Package config loads louis14tables settings from defaults, an optional
// YAML file and L14T_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. L14T_LAYOUT_VIEWPORT_WIDTH.
const EnvPrefix = "L14T"

// FileName is the config file looked up in the working directory when no
// explicit path is given.
const FileName = "louis14tables"

type Config struct {
	Layout LayoutConfig `mapstructure:"layout" yaml:"layout"`
	Text   TextConfig   `mapstructure:"text" yaml:"text"`
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
}

// LayoutConfig controls document layout.
type LayoutConfig struct {
	ViewportWidth  int    `mapstructure:"viewport_width" yaml:"viewport_width"`
	Quirks         string `mapstructure:"quirks" yaml:"quirks"` // auto, on or off
	DefaultSpacing int    `mapstructure:"default_spacing" yaml:"default_spacing"`
	Margin         int    `mapstructure:"margin" yaml:"margin"`
}

// TextConfig controls text measurement. A positive FixedAdvance replaces
// font metrics with a fixed advance per character, in ems.
type TextConfig struct {
	FontSize     float64 `mapstructure:"font_size" yaml:"font_size"`
	FontPath     string  `mapstructure:"font_path" yaml:"font_path"`
	FixedAdvance float64 `mapstructure:"fixed_advance" yaml:"fixed_advance"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults initializes default values for every key.
func SetDefaults(v *viper.Viper) {
	// -- Layout --
	v.SetDefault("layout.viewport_width", 800)
	v.SetDefault("layout.quirks", "auto")
	v.SetDefault("layout.default_spacing", 2)
	v.SetDefault("layout.margin", 8)

	// -- Text --
	v.SetDefault("text.font_size", 16.0)
	v.SetDefault("text.font_path", "")
	v.SetDefault("text.fixed_advance", 0.0)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "louis14tables")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
}

// NewDefaultConfig returns the configuration built from defaults alone.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load prepares v with defaults and environment overrides, reads the config
// file at path (or louis14tables.yaml in the working directory, if present)
// and returns the validated result. Flags bound to v before the call take
// precedence over both.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper unmarshals and validates the settings held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Layout.ViewportWidth <= 0 {
		return fmt.Errorf("layout.viewport_width must be a positive integer")
	}
	switch c.Layout.Quirks {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("layout.quirks must be one of auto, on, off; got %q", c.Layout.Quirks)
	}
	if c.Layout.DefaultSpacing < 0 {
		return fmt.Errorf("layout.default_spacing must not be negative")
	}
	if c.Layout.Margin < 0 {
		return fmt.Errorf("layout.margin must not be negative")
	}
	if c.Text.FontSize <= 0 {
		return fmt.Errorf("text.font_size must be positive")
	}
	if c.Text.FixedAdvance < 0 {
		return fmt.Errorf("text.fixed_advance must not be negative")
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json; got %q", c.Logger.Format)
	}
	return nil
}
