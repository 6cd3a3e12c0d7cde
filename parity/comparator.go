// CLAUDE:SUMMARY Compares one page between the development and legacy origins: capture both, run the pixel diff, check the error percentage against tolerance.
// Package parity compares how a page renders on the development site
// against the legacy site it replaces.
//
// A comparison loads the same sanitized path on both origins in one browser
// session, strips elements that never render deterministically, captures a
// viewport screenshot of each, and hands both files to an external pixel
// diff tool. The page passes when the share of differing pixels stays below
// the tolerance.
package parity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/viztest/pages"
)

const (
	DefaultDevOrigin    = "http://127.0.0.1:6543"
	DefaultLegacyOrigin = "https://20kbps.net"

	DefaultWidth  = 1000
	DefaultHeight = 5000

	// TolerancePercentage is the highest error percentage, exclusive, at
	// which two renders are still considered identical.
	TolerancePercentage = 0.01

	DefaultNavigationTimeout = 30 * time.Second

	devSuffix    = "__dev.png"
	legacySuffix = "__legacy.png"
	diffSuffix   = "__diff.png"

	// nullSink tells the diff tool to discard the diff image.
	nullSink = "null:"
)

var (
	ErrEmptyPath = errors.New("parity: empty path")

	// ErrNavigationTimeout marks a navigation that did not reach its idle
	// signal in time. The page may still hold enough DOM to capture.
	ErrNavigationTimeout = errors.New("parity: navigation timeout")
)

// Session is a browser tab the comparator drives. Implementations must
// return an error wrapping ErrNavigationTimeout from Navigate when the
// page did not settle before the deadline.
type Session interface {
	SetViewport(ctx context.Context, width, height int) error
	DisableCache(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	// Normalize removes every audio element and the first iframe, if any,
	// from the current document. It returns the number of removed nodes.
	Normalize(ctx context.Context) (int, error)
	Screenshot(ctx context.Context, file string) error
}

// Differ counts the differing pixels between two captures. diffOut is
// where the diff image goes; "null:" discards it.
type Differ interface {
	Diff(ctx context.Context, legacyFile, devFile, diffOut string) (float64, error)
}

// Config configures a Comparator.
type Config struct {
	DevOrigin    string
	LegacyOrigin string

	// Width and Height are the viewport used when a case has no override.
	Width  int
	Height int

	// Tolerance is the exclusive upper bound on the error percentage.
	Tolerance float64

	// NavigationTimeout bounds each navigation. A timeout is not fatal.
	NavigationTimeout time.Duration

	// WorkDir receives the screenshots. Default: current directory.
	WorkDir string

	// DiffDir, when set, keeps the diff image of every comparison there.
	DiffDir string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.DevOrigin == "" {
		c.DevOrigin = DefaultDevOrigin
	}
	if c.LegacyOrigin == "" {
		c.LegacyOrigin = DefaultLegacyOrigin
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Tolerance <= 0 {
		c.Tolerance = TolerancePercentage
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = DefaultNavigationTimeout
	}
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.DevOrigin = strings.TrimSuffix(c.DevOrigin, "/")
	c.LegacyOrigin = strings.TrimSuffix(c.LegacyOrigin, "/")
}

// Result is the verdict of one comparison.
type Result struct {
	RunID           string  `json:"run_id,omitempty"`
	Path            string  `json:"path"`
	Sanitized       string  `json:"sanitized"`
	DevURL          string  `json:"dev_url"`
	LegacyURL       string  `json:"legacy_url"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	DiffPixels      float64 `json:"diff_pixels"`
	ErrorPercentage float64 `json:"error_percentage"`
	Tolerance       float64 `json:"tolerance"`
	Passed          bool    `json:"passed"`
	DiffImage       string  `json:"diff_image,omitempty"`
	DurationMs      int64   `json:"duration_ms"`
	Timestamp       int64   `json:"timestamp"`

	// Error is set by callers that report a comparison which could not
	// produce a verdict.
	Error string `json:"error,omitempty"`
}

// Comparator runs page comparisons. It holds no per-comparison state and
// may be shared by concurrent callers, each with its own Session.
type Comparator struct {
	cfg  Config
	diff Differ
}

// New creates a Comparator using d to diff captures.
func New(cfg Config, d Differ) *Comparator {
	cfg.defaults()
	return &Comparator{cfg: cfg, diff: d}
}

// Config returns the effective configuration.
func (c *Comparator) Config() Config { return c.cfg }

// ErrorPercentage scales a differing-pixel count to 0..100 by the number
// of pixels in a width x height viewport.
func ErrorPercentage(diffPixels float64, width, height int) float64 {
	return 100 * diffPixels / float64(width*height)
}

// Compare loads pc on both origins through s and diffs the captures. The
// two screenshots are removed before Compare returns, whatever the outcome.
// A page over tolerance is a Result with Passed false, not an error.
func (c *Comparator) Compare(ctx context.Context, s Session, pc pages.Case) (*Result, error) {
	if pc.Path == "" {
		return nil, ErrEmptyPath
	}
	start := time.Now()
	log := c.cfg.Logger.With("path", pc.Path)

	width, height := pc.Width, pc.Height
	if width <= 0 {
		width = c.cfg.Width
	}
	if height <= 0 {
		height = c.cfg.Height
	}

	sanitized := pages.Sanitize(pc.Path)
	stem := pages.FileStem(pc.Path)
	devFile := filepath.Join(c.cfg.WorkDir, stem+devSuffix)
	legacyFile := filepath.Join(c.cfg.WorkDir, stem+legacySuffix)
	defer removeCaptures(log, devFile, legacyFile)

	if err := s.SetViewport(ctx, width, height); err != nil {
		return nil, fmt.Errorf("parity: set viewport: %w", err)
	}
	if err := s.DisableCache(ctx); err != nil {
		return nil, fmt.Errorf("parity: disable cache: %w", err)
	}

	devURL := c.cfg.DevOrigin + "/" + sanitized
	legacyURL := c.cfg.LegacyOrigin + "/" + sanitized

	if err := c.capture(ctx, log, s, devURL, devFile, pc.IdleDelay); err != nil {
		return nil, err
	}
	if err := c.capture(ctx, log, s, legacyURL, legacyFile, pc.IdleDelay); err != nil {
		return nil, err
	}

	diffOut := nullSink
	if c.cfg.DiffDir != "" {
		if err := os.MkdirAll(c.cfg.DiffDir, 0o755); err != nil {
			return nil, fmt.Errorf("parity: diff dir: %w", err)
		}
		diffOut = filepath.Join(c.cfg.DiffDir, stem+diffSuffix)
	}

	count, err := c.diff.Diff(ctx, legacyFile, devFile, diffOut)
	if err != nil {
		return nil, fmt.Errorf("parity: diff %s: %w", sanitized, err)
	}

	pct := ErrorPercentage(count, width, height)
	res := &Result{
		Path:            pc.Path,
		Sanitized:       sanitized,
		DevURL:          devURL,
		LegacyURL:       legacyURL,
		Width:           width,
		Height:          height,
		DiffPixels:      count,
		ErrorPercentage: pct,
		Tolerance:       c.cfg.Tolerance,
		Passed:          pct < c.cfg.Tolerance,
		DurationMs:      time.Since(start).Milliseconds(),
		Timestamp:       time.Now().UnixMilli(),
	}
	if diffOut != nullSink {
		res.DiffImage = diffOut
	}

	log.Info("parity: compared",
		"diff_pixels", count, "error_percentage", pct,
		"passed", res.Passed, "duration_ms", res.DurationMs)
	return res, nil
}

// capture navigates to url, normalizes the page, waits idle and writes the
// screenshot to file.
func (c *Comparator) capture(ctx context.Context, log *slog.Logger, s Session, url, file string, idle time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, c.cfg.NavigationTimeout)
	err := s.Navigate(navCtx, url)
	cancel()
	if err != nil {
		if ctx.Err() != nil || !errors.Is(err, ErrNavigationTimeout) {
			return fmt.Errorf("parity: navigate %s: %w", url, err)
		}
		log.Warn("parity: navigation timeout, capturing anyway", "url", url)
	}

	removed, err := s.Normalize(ctx)
	if err != nil {
		return fmt.Errorf("parity: normalize %s: %w", url, err)
	}
	log.Debug("parity: normalized", "url", url, "removed", removed)

	if err := sleepCtx(ctx, idle); err != nil {
		return fmt.Errorf("parity: idle delay: %w", err)
	}

	if err := s.Screenshot(ctx, file); err != nil {
		return fmt.Errorf("parity: screenshot %s: %w", url, err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func removeCaptures(log *slog.Logger, files ...string) {
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("parity: remove capture", "file", f, "error", err)
		}
	}
}
