package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/viztest/internal/browser"
	"github.com/hazyhaar/viztest/internal/config"
	"github.com/hazyhaar/viztest/internal/imagediff"
	"github.com/hazyhaar/viztest/internal/report"
	"github.com/hazyhaar/viztest/internal/runner"
	"github.com/hazyhaar/viztest/pages"
	"github.com/hazyhaar/viztest/parity"
)

type runFlags struct {
	only      []string
	workers   int
	keepDiffs string
	jsonl     bool
	webhook   string
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compare every active page and exit non-zero on any mismatch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(g.logLevel)
			cfg, err := loadConfig(cmd.Context(), g, logger)
			if err != nil {
				return err
			}
			if f.workers > 0 {
				cfg.Workers = f.workers
			}
			if f.keepDiffs != "" {
				cfg.DiffDir = f.keepDiffs
			}
			if f.jsonl {
				cfg.Sinks = append(cfg.Sinks, config.SinkConfig{Type: "stdout"})
			}
			if f.webhook != "" {
				cfg.Sinks = append(cfg.Sinks, config.SinkConfig{Type: "webhook", URL: f.webhook})
			}
			return runCases(cmd.Context(), logger, cfg, pages.Select(cfg.ActivePages(), f.only))
		},
	}
	cmd.Flags().StringSliceVar(&f.only, "only", nil, "compare only these paths")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "pages compared at once (default from config, 1)")
	cmd.Flags().StringVar(&f.keepDiffs, "keep-diffs", "", "directory to keep diff images in")
	cmd.Flags().BoolVar(&f.jsonl, "jsonl", false, "also write results as JSON lines on stdout")
	cmd.Flags().StringVar(&f.webhook, "webhook", "", "also POST results to this URL")
	return cmd
}

// runCases wires browser, diff tool, comparator and sinks, and runs cases.
func runCases(ctx context.Context, logger *slog.Logger, cfg *config.Config, cases []pages.Case) error {
	if len(cases) == 0 {
		return fmt.Errorf("no pages to compare")
	}

	pc := cfg.Comparator()
	pc.Logger = logger

	screenW, screenH := screenSize(pc, cases)
	mgr := browser.NewManager(browser.Config{
		RemoteURL:    cfg.Browser.Remote,
		Bin:          cfg.Browser.Bin,
		Mode:         browser.ParseMode(cfg.Browser.Mode),
		Stealth:      cfg.Browser.Stealth,
		XvfbDisplay:  cfg.Browser.XvfbDisplay,
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
		Logger:       logger,
	})
	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer mgr.Close()

	cmp := parity.New(pc, imagediff.New(
		imagediff.WithBinary(cfg.CompareBin),
		imagediff.WithLogger(logger),
	))

	sink := report.NewRouter(logger, buildSinks(cfg, logger, len(cases))...)
	defer sink.Close()

	open := func() (runner.Session, error) {
		t, err := mgr.NewTab()
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	r := runner.New(runner.Config{
		Workers: cfg.Workers,
		WorkDir: cfg.WorkDir,
		Logger:  logger,
	}, cmp, open, sink)

	sum, err := r.Run(ctx, cases)
	if err != nil {
		return err
	}
	if !sum.OK() {
		return fmt.Errorf("%d of %d pages differ or failed", sum.Failed+sum.Errored, sum.Total)
	}
	return nil
}

// screenSize returns the largest viewport any case will emulate.
func screenSize(pc parity.Config, cases []pages.Case) (int, int) {
	w, h := pc.Width, pc.Height
	if w <= 0 {
		w = parity.DefaultWidth
	}
	if h <= 0 {
		h = parity.DefaultHeight
	}
	for _, c := range cases {
		w = max(w, c.Width)
		h = max(h, c.Height)
	}
	return w, h
}

func buildSinks(cfg *config.Config, logger *slog.Logger, total int) []report.Sink {
	var sinks []report.Sink
	for _, sc := range cfg.Sinks {
		switch sc.Type {
		case "console":
			sinks = append(sinks, report.NewConsole(os.Stderr, total))
		case "stdout":
			sinks = append(sinks, report.NewStdout(nil))
		case "webhook":
			sinks = append(sinks, report.NewWebhook(sc.URL, report.WithWebhookLogger(logger)))
		default:
			logger.Warn("viztest: unknown sink type", "type", sc.Type)
		}
	}
	if len(sinks) == 0 {
		sinks = append(sinks, report.NewConsole(os.Stderr, total))
	}
	return sinks
}
