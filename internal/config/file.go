// CLAUDE:SUMMARY Defines viztest config structs, parses YAML configuration files with defaults and environment overrides.
// Package config handles viztest configuration from YAML files, the
// environment, or an SQLite page table.
package config

import (
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/viztest/pages"
	"github.com/hazyhaar/viztest/parity"
)

// Config is the top-level viztest configuration.
type Config struct {
	Origins           OriginsConfig     `yaml:"origins"`
	Viewport          ViewportConfig    `yaml:"viewport"`
	Tolerance         float64           `yaml:"tolerance"`
	NavigationTimeout time.Duration     `yaml:"navigation_timeout"`
	WorkDir           string            `yaml:"work_dir"`
	DiffDir           string            `yaml:"diff_dir"`
	CompareBin        string            `yaml:"compare_bin"`
	Workers           int               `yaml:"workers"`
	Browser           BrowserConfig     `yaml:"browser"`
	Pages             []pages.Case      `yaml:"pages"`
	Excluded          map[string]string `yaml:"excluded"`
	Sinks             []SinkConfig      `yaml:"sinks"`
}

// OriginsConfig holds the two base URLs pages are resolved against.
type OriginsConfig struct {
	Dev    string `yaml:"dev"`
	Legacy string `yaml:"legacy"`
}

// ViewportConfig is the default viewport for cases without an override.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote      string `yaml:"remote"`
	Bin         string `yaml:"bin"`
	Mode        string `yaml:"mode"` // headless | headful
	Stealth     bool   `yaml:"stealth"`
	XvfbDisplay string `yaml:"xvfb_display"`
}

// SinkConfig defines a result output backend.
type SinkConfig struct {
	Type string `yaml:"type"` // console | stdout | webhook
	URL  string `yaml:"url"`  // for webhook
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Origins.Dev == "" {
		c.Origins.Dev = parity.DefaultDevOrigin
	}
	if c.Origins.Legacy == "" {
		c.Origins.Legacy = parity.DefaultLegacyOrigin
	}
	if c.Viewport.Width <= 0 {
		c.Viewport.Width = parity.DefaultWidth
	}
	if c.Viewport.Height <= 0 {
		c.Viewport.Height = parity.DefaultHeight
	}
	if c.Tolerance <= 0 {
		c.Tolerance = parity.TolerancePercentage
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = parity.DefaultNavigationTimeout
	}
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	if c.CompareBin == "" {
		c.CompareBin = "compare"
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Browser.Mode == "" {
		c.Browser.Mode = "headless"
	}
	if c.Browser.XvfbDisplay == "" {
		c.Browser.XvfbDisplay = ":99"
	}
	if len(c.Pages) == 0 {
		c.Pages = pages.Default()
	}
	if c.Excluded == nil {
		c.Excluded = make(map[string]string)
		for _, e := range pages.Excluded() {
			c.Excluded[e.Path] = e.Reason
		}
	}
	if len(c.Sinks) == 0 {
		c.Sinks = []SinkConfig{{Type: "console"}}
	}
}

// Exclusions returns the excluded pages sorted by path.
func (c *Config) Exclusions() []pages.Exclusion {
	out := make([]pages.Exclusion, 0, len(c.Excluded))
	for p, reason := range c.Excluded {
		out = append(out, pages.Exclusion{Path: p, Reason: reason})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ActivePages returns the configured cases minus the excluded ones.
func (c *Config) ActivePages() []pages.Case {
	return pages.Active(c.Pages, c.Exclusions())
}

// Comparator maps the configuration onto parity.Config.
func (c *Config) Comparator() parity.Config {
	return parity.Config{
		DevOrigin:         c.Origins.Dev,
		LegacyOrigin:      c.Origins.Legacy,
		Width:             c.Viewport.Width,
		Height:            c.Viewport.Height,
		Tolerance:         c.Tolerance,
		NavigationTimeout: c.NavigationTimeout,
		WorkDir:           c.WorkDir,
		DiffDir:           c.DiffDir,
	}
}
