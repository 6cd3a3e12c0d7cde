// CLAUDE:SUMMARY Rod page wrapper implementing the comparison session: viewport, cache, idle-aware navigation, DOM normalization, PNG capture.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/viztest/parity"
)

// networkIdle is how long the page must go without a request before
// navigation counts as settled.
const networkIdle = 500 * time.Millisecond

// Tab wraps a Rod page and implements parity.Session.
type Tab struct {
	page   *rod.Page
	logger *slog.Logger
}

var _ parity.Session = (*Tab)(nil)

// SetViewport emulates a width x height viewport at scale 1.
func (t *Tab) SetViewport(ctx context.Context, width, height int) error {
	err := t.page.Context(ctx).SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("browser: set viewport: %w", err)
	}
	return nil
}

// DisableCache forces every request of the tab to hit the network.
func (t *Tab) DisableCache(ctx context.Context) error {
	p := t.page.Context(ctx)
	if err := (proto.NetworkEnable{}).Call(p); err != nil {
		return fmt.Errorf("browser: network enable: %w", err)
	}
	if err := (proto.NetworkSetCacheDisabled{CacheDisabled: true}).Call(p); err != nil {
		return fmt.Errorf("browser: disable cache: %w", err)
	}
	return nil
}

// Navigate loads url and waits for the load event and for the network to
// go idle. When ctx expires first the error wraps parity.ErrNavigationTimeout.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	p := t.page.Context(ctx)

	wait := p.WaitRequestIdle(networkIdle, nil, nil, nil)
	if err := p.Navigate(url); err != nil {
		return classify(ctx, fmt.Errorf("browser: navigate %s: %w", url, err))
	}
	if err := p.WaitLoad(); err != nil {
		return classify(ctx, fmt.Errorf("browser: wait load %s: %w", url, err))
	}
	wait()

	if ctx.Err() != nil {
		return classify(ctx, fmt.Errorf("browser: wait idle %s: %w", url, ctx.Err()))
	}
	return nil
}

// Normalize runs parity.NormalizeScript in the current document.
func (t *Tab) Normalize(ctx context.Context) (int, error) {
	res, err := t.page.Context(ctx).Eval(parity.NormalizeScript)
	if err != nil {
		return 0, fmt.Errorf("browser: normalize: %w", err)
	}
	return res.Value.Int(), nil
}

// Screenshot writes a PNG of the current viewport to file.
func (t *Tab) Screenshot(ctx context.Context, file string) error {
	data, err := t.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("browser: screenshot: %w", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("browser: write screenshot: %w", err)
	}
	t.logger.Debug("browser: captured", "file", file, "bytes", len(data))
	return nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.page != nil {
		return t.page.Close()
	}
	return nil
}

// classify marks deadline errors as navigation timeouts. Cancellation is
// left as is so the caller aborts.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", parity.ErrNavigationTimeout, err)
	}
	return err
}
