// Package report delivers comparison results to output backends.
package report

import (
	"context"

	"github.com/hazyhaar/viztest/parity"
)

// Sink is the output interface. Implementations deliver results to
// different backends (console, JSON lines, webhook).
type Sink interface {
	Send(ctx context.Context, res parity.Result) error
	SendSummary(ctx context.Context, sum Summary) error
	Close() error
}

// Summary closes a run.
type Summary struct {
	RunID      string   `json:"run_id"`
	Total      int      `json:"total"`
	Passed     int      `json:"passed"`
	Failed     int      `json:"failed"`
	Errored    int      `json:"errored"`
	FailedList []string `json:"failed_paths,omitempty"`
	DurationMs int64    `json:"duration_ms"`
}

// OK reports whether every case passed.
func (s Summary) OK() bool { return s.Failed == 0 && s.Errored == 0 }

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
