// CLAUDE:SUMMARY Runs an Xvfb display sized to the largest viewport of the run, for headful captures.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const xvfbReadyTimeout = 5 * time.Second

// xvfbArgs builds the Xvfb command line. The screen must hold the tallest
// emulated viewport or headful captures get clipped.
func xvfbArgs(display string, width, height int) []string {
	return []string{display, "-screen", "0", strconv.Itoa(width) + "x" + strconv.Itoa(height) + "x24", "-ac", "-nolisten", "tcp"}
}

// displaySocket is the unix socket Xvfb creates once it accepts clients.
func displaySocket(display string) string {
	n := strings.TrimPrefix(display, ":")
	if i := strings.IndexByte(n, '.'); i >= 0 {
		n = n[:i]
	}
	return "/tmp/.X11-unix/X" + n
}

func (m *Manager) startXvfb() error {
	if m.xvfb != nil {
		return nil
	}

	display := m.cfg.XvfbDisplay
	cmd := exec.Command("Xvfb", xvfbArgs(display, m.cfg.ScreenWidth, m.cfg.ScreenHeight)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start xvfb: %w", err)
	}
	m.xvfb = cmd

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()
	m.xvfbExited = exited

	sock := displaySocket(display)
	deadline := time.Now().Add(xvfbReadyTimeout)
	for {
		if _, err := os.Stat(sock); err == nil {
			break
		}
		select {
		case err := <-exited:
			m.xvfb, m.xvfbExited = nil, nil
			return fmt.Errorf("xvfb exited before %s was ready: %v", display, err)
		case <-time.After(50 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			m.stopXvfb()
			return fmt.Errorf("xvfb: %s not ready after %s", sock, xvfbReadyTimeout)
		}
	}

	m.cfg.Logger.Info("browser: xvfb started", "display", display,
		"screen", fmt.Sprintf("%dx%d", m.cfg.ScreenWidth, m.cfg.ScreenHeight), "pid", cmd.Process.Pid)
	return nil
}

func (m *Manager) stopXvfb() {
	if m.xvfb == nil {
		return
	}
	if m.xvfb.Process != nil {
		m.xvfb.Process.Kill()
		if m.xvfbExited != nil {
			<-m.xvfbExited
		}
	}
	m.cfg.Logger.Info("browser: xvfb stopped")
	m.xvfb, m.xvfbExited = nil, nil
}
