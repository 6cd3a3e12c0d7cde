// CLAUDE:SUMMARY Runs ImageMagick compare with the AE metric and parses the differing-pixel count from stderr.
// Package imagediff counts differing pixels between two screenshots by
// running ImageMagick's compare tool.
package imagediff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ErrUnparsable is returned when compare wrote something other than a
// pixel count on stderr. compare exits 1 whenever the images differ, so
// the exit status alone cannot tell a difference from a tool failure.
var ErrUnparsable = errors.New("imagediff: unparsable compare output")

// Magick runs `compare -metric AE <legacy> <dev> <diffOut>`.
type Magick struct {
	bin    string
	logger *slog.Logger
}

// Option configures a Magick.
type Option func(*Magick)

// WithBinary sets the compare executable. Default: "compare".
func WithBinary(bin string) Option {
	return func(m *Magick) { m.bin = bin }
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Magick) { m.logger = l }
}

// New creates a Magick differ.
func New(opts ...Option) *Magick {
	m := &Magick{bin: "compare", logger: slog.Default()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Diff returns the absolute error count (no fuzz) between the two files.
func (m *Magick) Diff(ctx context.Context, legacyFile, devFile, diffOut string) (float64, error) {
	cmd := exec.CommandContext(ctx, m.bin, "-metric", "AE", legacyFile, devFile, diffOut)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return 0, fmt.Errorf("imagediff: run %s: %w", m.bin, runErr)
	}
	if ctx.Err() != nil {
		return 0, fmt.Errorf("imagediff: %w", ctx.Err())
	}

	count, err := ParseAE(stderr.String())
	if err != nil {
		if exitErr != nil {
			return 0, fmt.Errorf("%w (exit %d)", err, exitErr.ExitCode())
		}
		return 0, err
	}

	m.logger.Debug("imagediff: compared",
		"legacy", legacyFile, "dev", devFile, "diff_pixels", count, "exit", exitCode(exitErr))
	return count, nil
}

// ParseAE reads the AE metric compare prints on stderr. It accepts a plain
// count ("1234"), scientific notation ("1.2e+06") and the ImageMagick 7
// form with a normalized value in parentheses ("1234 (0.0185)").
func ParseAE(out string) (float64, error) {
	s := strings.TrimSpace(out)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrUnparsable)
	}
	fields := strings.Fields(s)
	if len(fields) > 2 || (len(fields) == 2 && !isNormalized(fields[1])) {
		return 0, fmt.Errorf("%w: %q", ErrUnparsable, s)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrUnparsable, s)
	}
	return v, nil
}

func isNormalized(f string) bool {
	if !strings.HasPrefix(f, "(") || !strings.HasSuffix(f, ")") {
		return false
	}
	_, err := strconv.ParseFloat(f[1:len(f)-1], 64)
	return err == nil
}

func exitCode(e *exec.ExitError) int {
	if e == nil {
		return 0
	}
	return e.ExitCode()
}
