// Package config loads flowedit settings from a TOML file.
//
// Settings are layered: [Default] supplies every value and a config file, if
// present, overrides the keys it sets. The default location follows the XDG
// convention:
//
//	$XDG_CONFIG_HOME/flowedit/config.toml   (or ~/.config/flowedit/config.toml)
//
// A missing file is not an error. A malformed file, an unknown key, or an
// out-of-range value yields an INVALID_CONFIG error.
//
// Example file:
//
//	[layout]
//	horizontal_spacing = 250
//	vertical_spacing = 150
//
//	[bounds]
//	node_width = 180
//	node_height = 100
//	padding = 20
//
//	[history]
//	capacity = 100
//
//	[log]
//	level = "debug"
//
//	[server]
//	addr = "127.0.0.1:7300"
//	allowed_origins = ["http://localhost:5173"]
package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/flowedit/pkg/errors"
	"github.com/matzehuels/flowedit/pkg/flow/bounds"
	"github.com/matzehuels/flowedit/pkg/flow/history"
	"github.com/matzehuels/flowedit/pkg/flow/layout"
)

const appName = "flowedit"

// Config holds flowedit configuration.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Bounds  BoundsConfig  `toml:"bounds"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
}

// LayoutConfig controls auto-arrange spacing.
type LayoutConfig struct {
	HorizontalSpacing float64 `toml:"horizontal_spacing" validate:"gt=0"`
	VerticalSpacing   float64 `toml:"vertical_spacing" validate:"gt=0"`
}

// BoundsConfig controls the node footprint used to keep nodes visible.
type BoundsConfig struct {
	NodeWidth  float64 `toml:"node_width" validate:"gte=0"`
	NodeHeight float64 `toml:"node_height" validate:"gte=0"`
	Padding    float64 `toml:"padding" validate:"gte=0"`
}

// HistoryConfig controls the undo stack.
type HistoryConfig struct {
	Capacity int `toml:"capacity" validate:"gte=0"` // 0 keeps every snapshot
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error fatal"`
}

// ServerConfig controls the HTTP transport.
type ServerConfig struct {
	Addr           string   `toml:"addr" validate:"hostname_port"`
	AllowedOrigins []string `toml:"allowed_origins" validate:"dive,url"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			HorizontalSpacing: layout.DefaultHorizontalSpacing,
			VerticalSpacing:   layout.DefaultVerticalSpacing,
		},
		Bounds: BoundsConfig{
			NodeWidth:  bounds.DefaultNodeWidth,
			NodeHeight: bounds.DefaultNodeHeight,
			Padding:    bounds.DefaultPadding,
		},
		History: HistoryConfig{Capacity: history.DefaultCapacity},
		Log:     LogConfig{Level: "info"},
		Server:  ServerConfig{Addr: "127.0.0.1:7300"},
	}
}

// Dir returns the flowedit config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path over the defaults.
// An empty path means [DefaultPath]. A missing file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that every value is in range.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate")
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = formatFieldError(fe)
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "gt":
		return key + " must be greater than " + fe.Param()
	case "gte":
		return key + " must not be negative"
	case "oneof":
		return key + " must be one of: " + fe.Param()
	case "hostname_port":
		return key + " must be host:port"
	default:
		return key + " is invalid"
	}
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (log.Level, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level %q", c.Log.Level)
	}
	return level, nil
}

// LayoutOptions converts the layout section for the layout engine.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		HorizontalSpacing: c.Layout.HorizontalSpacing,
		VerticalSpacing:   c.Layout.VerticalSpacing,
	}
}

// BoundsOptions converts the bounds section for the bounds enforcer.
func (c *Config) BoundsOptions() bounds.Options {
	return bounds.Options{
		NodeWidth:  c.Bounds.NodeWidth,
		NodeHeight: c.Bounds.NodeHeight,
		Padding:    c.Bounds.Padding,
	}
}
