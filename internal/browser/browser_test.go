package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/viztest/parity"
)

func TestParseMode(t *testing.T) {
	if ParseMode("headful") != ModeHeadful {
		t.Error("headful")
	}
	for _, s := range []string{"", "headless", "bogus"} {
		if ParseMode(s) != ModeHeadless {
			t.Errorf("ParseMode(%q) != ModeHeadless", s)
		}
	}
}

func TestClassify_DeadlineIsTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	err := classify(ctx, fmt.Errorf("browser: wait load: %w", context.DeadlineExceeded))
	if !errors.Is(err, parity.ErrNavigationTimeout) {
		t.Fatalf("err = %v, want ErrNavigationTimeout", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("original cause lost")
	}
}

func TestClassify_CancelIsNotTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := classify(ctx, fmt.Errorf("browser: navigate: %w", context.Canceled))
	if errors.Is(err, parity.ErrNavigationTimeout) {
		t.Fatalf("cancellation classified as timeout: %v", err)
	}
}

func TestClassify_OtherErrorUnchanged(t *testing.T) {
	boom := errors.New("navigation failed: net::ERR_NAME_NOT_RESOLVED")
	if err := classify(context.Background(), boom); err != boom {
		t.Fatalf("err = %v, want unchanged", err)
	}
}

func TestManager_NewTabBeforeStart(t *testing.T) {
	m := NewManager(Config{})
	if _, err := m.NewTab(); err == nil {
		t.Fatal("expected error without a started browser")
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Start(context.Background()); err == nil {
		t.Fatal("expected error starting a closed manager")
	}
}

func TestXvfbArgs(t *testing.T) {
	got := strings.Join(xvfbArgs(":99", 1000, 22000), " ")
	if got != ":99 -screen 0 1000x22000x24 -ac -nolisten tcp" {
		t.Errorf("xvfbArgs = %q", got)
	}
}

func TestDisplaySocket(t *testing.T) {
	for in, want := range map[string]string{
		":99":  "/tmp/.X11-unix/X99",
		":1.0": "/tmp/.X11-unix/X1",
		"7":    "/tmp/.X11-unix/X7",
	} {
		if got := displaySocket(in); got != want {
			t.Errorf("displaySocket(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfigDefaults_Screen(t *testing.T) {
	m := NewManager(Config{})
	if m.cfg.ScreenWidth != 1000 || m.cfg.ScreenHeight != 5000 || m.cfg.XvfbDisplay != ":99" {
		t.Errorf("defaults = %+v", m.cfg)
	}
}
