// Package idgen generates the identifiers stamped on comparison runs.
//
// A run ID is "run_" followed by a UUIDv7, so IDs sort by start time and
// the results of one run can be grouped downstream (webhook, JSON lines).
package idgen

import (
	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator that produces RFC 9562 UUID v7 strings.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Run generates run IDs.
var Run Generator = Prefixed("run_", UUIDv7())

// NewRun produces a run ID.
func NewRun() string {
	return Run()
}
