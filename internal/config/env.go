package config

import "os"

// Environment variables that override file settings.
const (
	EnvDevOrigin    = "VIZTEST_DEV_ORIGIN"
	EnvLegacyOrigin = "VIZTEST_LEGACY_ORIGIN"
	EnvChromeURL    = "VIZTEST_CHROME_URL"
	EnvChromeBin    = "VIZTEST_CHROME_BIN"
	EnvCompareBin   = "VIZTEST_COMPARE_BIN"
)

// ApplyEnv overrides settings from the process environment.
func (c *Config) ApplyEnv() {
	c.applyEnv(os.Getenv)
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvDevOrigin); v != "" {
		c.Origins.Dev = v
	}
	if v := getenv(EnvLegacyOrigin); v != "" {
		c.Origins.Legacy = v
	}
	if v := getenv(EnvChromeURL); v != "" {
		c.Browser.Remote = v
	}
	if v := getenv(EnvChromeBin); v != "" {
		c.Browser.Bin = v
	}
	if v := getenv(EnvCompareBin); v != "" {
		c.CompareBin = v
	}
}
