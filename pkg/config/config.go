// Package config loads waterfall settings from a TOML file.
//
// A config file sets defaults for every entry point; command-line flags and
// API request fields override it. All sections are optional:
//
//	[chart]
//	width = 1024
//	height = 640
//	style = "outline"
//	padding = 0.3
//	nice = true
//	tick_count = 8
//	formats = ["svg", "png"]
//
//	[margins]
//	top = 20
//	left = 80
//
//	[theme]
//	positive = "#2e7d32"
//
//	[cache]
//	url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	timeout = "30s"
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/fonts"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// AppName names the config directory.
const AppName = "waterfall"

// FileName is the config file looked up in the config directory.
const FileName = "config.toml"

// Server defaults.
const (
	DefaultAddr         = "127.0.0.1:8080"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 5 << 20
)

// Config is the decoded config file.
type Config struct {
	Chart   Chart          `toml:"chart"`
	Margins layout.Margins `toml:"margins"`
	Theme   styles.Theme   `toml:"theme"`
	Cache   Cache          `toml:"cache"`
	Server  Server         `toml:"server"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Chart holds layout and render defaults.
type Chart struct {
	Width     float64  `toml:"width"`
	Height    float64  `toml:"height"`
	Style     string   `toml:"style"`
	Padding   float64  `toml:"padding"`
	Nice      bool     `toml:"nice"`
	TickCount int      `toml:"tick_count"`
	Scale     float64  `toml:"scale"`
	Formats   []string `toml:"formats"`
	Font      string   `toml:"font"` // TrueType file for PNG text
}

// Cache selects the cache backend by URL, see cache.Open.
// Prefix namespaces every key, for backends shared between deployments.
type Cache struct {
	URL    string `toml:"url"`
	Prefix string `toml:"prefix"`
}

// Server configures `waterfall serve`.
type Server struct {
	Addr         string        `toml:"addr"`
	Timeout      time.Duration `toml:"timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Chart: Chart{
			Width:     pipeline.DefaultWidth,
			Height:    pipeline.DefaultHeight,
			Style:     pipeline.DefaultStyle,
			Padding:   layout.DefaultPadding,
			Nice:      true,
			TickCount: layout.DefaultTickCount,
			Scale:     pipeline.DefaultScale,
			Formats:   []string{pipeline.FormatSVG},
		},
		Margins: layout.DefaultMargins,
		Theme:   styles.DefaultTheme(),
		Server: Server{
			Addr:         DefaultAddr,
			Timeout:      DefaultTimeout,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// Decode reads TOML from r over the defaults. Unknown keys are rejected so
// that typos do not silently fall back to defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Find loads the config at explicit if set, otherwise the default location.
// A missing default file yields [Default].
func Find(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath returns $XDG_CONFIG_HOME/waterfall/config.toml, falling back
// to ~/.config/waterfall/config.toml.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := errors.ValidateDimensions(c.Chart.Width, c.Chart.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart")
	}
	if err := errors.ValidatePadding(c.Chart.Padding); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart")
	}
	if err := pipeline.ValidateFormats(c.Chart.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart")
	}
	if err := pipeline.ValidateStyle(strings.ToLower(c.Chart.Style)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart")
	}
	if err := c.Theme.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "theme")
	}
	if c.Server.Timeout < 0 || c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server timeout and max_body_bytes must not be negative")
	}
	return nil
}

// PipelineOptions converts the chart settings into pipeline options.
// The configured font, if any, is loaded here.
func (c *Config) PipelineOptions() (pipeline.Options, error) {
	margins := c.Margins
	padding := c.Chart.Padding
	theme := c.Theme
	opts := pipeline.Options{
		Width:     c.Chart.Width,
		Height:    c.Chart.Height,
		Margins:   &margins,
		Padding:   &padding,
		SkipNice:  !c.Chart.Nice,
		TickCount: c.Chart.TickCount,
		Formats:   append([]string(nil), c.Chart.Formats...),
		Style:     c.Chart.Style,
		Theme:     &theme,
		Scale:     c.Chart.Scale,
	}
	if c.Chart.Font != "" {
		f, err := fonts.Load(c.resolve(c.Chart.Font))
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Font = f
	}
	return opts, nil
}

// resolve interprets relative paths against the config file's directory.
func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.Path == "" {
		return path
	}
	return filepath.Join(filepath.Dir(c.Path), path)
}
