// CLAUDE:SUMMARY Human-facing sink: coloured PASS/FAIL/ERROR lines and a progress bar with running counts.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/hazyhaar/viztest/parity"
)

// Console prints one line per result and keeps a progress bar below them.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	bar    *progressbar.ProgressBar
	passed int
	failed int
}

// NewConsole creates a Console for a run of total cases. If w is nil,
// os.Stderr is used.
func NewConsole(w io.Writer, total int) *Console {
	if w == nil {
		w = os.Stderr
	}
	c := &Console{w: w}
	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(c.describe()),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionThrottle(0),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
	return c
}

func (c *Console) describe() string {
	return color.CyanString("Comparing pages: ") +
		color.GreenString("[passed: %d", c.passed) +
		" | " +
		color.RedString("failed: %d]", c.failed)
}

func (c *Console) Send(_ context.Context, res parity.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var line string
	switch {
	case res.Error != "":
		c.failed++
		line = color.RedString("ERROR ") + res.Path + "  " + res.Error
	case res.Passed:
		c.passed++
		line = color.GreenString("PASS  ") + fmt.Sprintf("%s  %.4f%%", res.Path, res.ErrorPercentage)
	default:
		c.failed++
		line = color.RedString("FAIL  ") + fmt.Sprintf("%s  %.4f%% (%g px, limit %g%%)",
			res.Path, res.ErrorPercentage, res.DiffPixels, res.Tolerance)
		if res.DiffImage != "" {
			line += "  diff: " + res.DiffImage
		}
	}

	c.bar.Clear()
	fmt.Fprintln(c.w, line)
	c.bar.Describe(c.describe())
	return c.bar.Set(c.passed + c.failed)
}

func (c *Console) SendSummary(_ context.Context, sum Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bar.Finish()
	d := (time.Duration(sum.DurationMs) * time.Millisecond).Round(time.Millisecond)
	if sum.OK() {
		color.New(color.FgGreen).Fprintf(c.w, "✓ %d/%d pages match (%s)\n", sum.Passed, sum.Total, d)
		return nil
	}
	color.New(color.FgRed).Fprintf(c.w, "✗ %d failed, %d errored, %d passed of %d (%s)\n",
		sum.Failed, sum.Errored, sum.Passed, sum.Total, d)
	for _, p := range sum.FailedList {
		fmt.Fprintf(c.w, "  - %s\n", p)
	}
	return nil
}

func (c *Console) Close() error { return nil }
