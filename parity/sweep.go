package parity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sweep deletes every screenshot left in dir (files ending in __dev.png or
// __legacy.png) and returns how many it removed. Diff images are kept.
func Sweep(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("parity: sweep: %w", err)
	}
	n := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, devSuffix) || strings.HasSuffix(name, legacySuffix)) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return n, fmt.Errorf("parity: sweep %s: %w", name, err)
		}
		n++
	}
	return n, nil
}
