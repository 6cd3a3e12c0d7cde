// CLAUDE:SUMMARY Runs a page list through the comparator on a pool of workers, one browser session each, and reports every verdict.
// Package runner drives a comparison run: it hands cases to a pool of
// workers, each with its own browser session, reports every verdict, and
// closes the run with a summary.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/viztest/idgen"
	"github.com/hazyhaar/viztest/internal/report"
	"github.com/hazyhaar/viztest/pages"
	"github.com/hazyhaar/viztest/parity"
)

// Session is a browser session a worker owns for the whole run.
type Session interface {
	parity.Session
	Close() error
}

// OpenFunc opens a new browser session.
type OpenFunc func() (Session, error)

// Comparer runs one comparison. *parity.Comparator implements it.
type Comparer interface {
	Compare(ctx context.Context, s parity.Session, pc pages.Case) (*parity.Result, error)
}

// Config configures a Runner.
type Config struct {
	// Workers is the number of cases compared at once. Default: 1.
	Workers int

	// WorkDir is swept of leftover screenshots after every case when
	// running with a single worker.
	WorkDir string

	Logger *slog.Logger
}

// Runner executes comparison runs.
type Runner struct {
	cfg  Config
	cmp  Comparer
	open OpenFunc
	sink report.Sink
}

// New creates a Runner.
func New(cfg Config, cmp Comparer, open OpenFunc, sink report.Sink) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Runner{cfg: cfg, cmp: cmp, open: open, sink: sink}
}

type job struct {
	index int
	c     pages.Case
}

// Run compares every case once. A failed or errored case never stops the
// others; the returned error is reserved for run-level problems (invalid
// list, no browser session, cancellation).
func (r *Runner) Run(ctx context.Context, cases []pages.Case) (report.Summary, error) {
	runID := idgen.NewRun()
	sum := report.Summary{RunID: runID, Total: len(cases)}
	log := r.cfg.Logger.With("run_id", runID)

	if err := pages.Validate(cases); err != nil {
		return sum, err
	}
	if len(cases) == 0 {
		return sum, nil
	}

	workers := min(r.cfg.Workers, len(cases))
	sessions := make([]Session, 0, workers)
	defer func() {
		for _, s := range sessions {
			if err := s.Close(); err != nil {
				log.Warn("runner: close session", "error", err)
			}
		}
	}()
	for range workers {
		s, err := r.open()
		if err != nil {
			return sum, fmt.Errorf("runner: open session: %w", err)
		}
		sessions = append(sessions, s)
	}

	start := time.Now()
	log.Info("runner: starting", "cases", len(cases), "workers", workers)

	queue := make(chan job, len(cases))
	for i, c := range cases {
		queue <- job{index: i, c: c}
	}
	close(queue)

	var mu sync.Mutex
	outcome := make([]*parity.Result, len(cases))
	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s Session) {
			defer wg.Done()
			for j := range queue {
				if ctx.Err() != nil {
					return
				}
				res := r.runOne(ctx, log, s, j.c, workers == 1)
				res.RunID = runID

				mu.Lock()
				outcome[j.index] = res
				if err := r.sink.Send(ctx, *res); err != nil {
					log.Warn("runner: report result", "path", res.Path, "error", err)
				}
				mu.Unlock()
			}
		}(s)
	}
	wg.Wait()

	for i, res := range outcome {
		switch {
		case res == nil:
			// not reached before cancellation
		case res.Error != "":
			sum.Errored++
			sum.FailedList = append(sum.FailedList, cases[i].Path)
		case res.Passed:
			sum.Passed++
		default:
			sum.Failed++
			sum.FailedList = append(sum.FailedList, cases[i].Path)
		}
	}
	sum.DurationMs = time.Since(start).Milliseconds()

	log.Info("runner: finished",
		"passed", sum.Passed, "failed", sum.Failed, "errored", sum.Errored,
		"duration_ms", sum.DurationMs)

	if err := r.sink.SendSummary(ctx, sum); err != nil {
		log.Warn("runner: report summary", "error", err)
	}
	if err := ctx.Err(); err != nil {
		return sum, fmt.Errorf("runner: %w", err)
	}
	return sum, nil
}

func (r *Runner) runOne(ctx context.Context, log *slog.Logger, s Session, c pages.Case, sweep bool) *parity.Result {
	res, err := r.cmp.Compare(ctx, s, c)
	if sweep {
		if n, serr := parity.Sweep(r.cfg.WorkDir); serr != nil {
			log.Warn("runner: sweep", "error", serr)
		} else if n > 0 {
			log.Debug("runner: swept leftover captures", "count", n)
		}
	}
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, context.Canceled) {
			level = slog.LevelWarn
		}
		log.Log(ctx, level, "runner: comparison error", "path", c.Path, "error", err)
		return &parity.Result{
			Path:      c.Path,
			Sanitized: pages.Sanitize(c.Path),
			Error:     err.Error(),
			Timestamp: time.Now().UnixMilli(),
		}
	}
	return res
}
