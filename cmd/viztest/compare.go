package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/viztest/pages"
)

func newCompareCmd(g *globalFlags) *cobra.Command {
	var (
		idle   time.Duration
		width  int
		height int
		keep   string
	)
	cmd := &cobra.Command{
		Use:   "compare <path>",
		Short: "Compare a single page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(g.logLevel)
			cfg, err := loadConfig(cmd.Context(), g, logger)
			if err != nil {
				return err
			}
			if keep != "" {
				cfg.DiffDir = keep
			}
			c := pages.Case{Path: args[0], IdleDelay: idle, Width: width, Height: height}
			// Inherit the configured overrides (index page viewport) unless
			// the flags set them.
			for _, known := range cfg.Pages {
				if pages.Sanitize(known.Path) != pages.Sanitize(c.Path) {
					continue
				}
				if !cmd.Flags().Changed("idle") {
					c.IdleDelay = known.IdleDelay
				}
				if !cmd.Flags().Changed("width") {
					c.Width = known.Width
				}
				if !cmd.Flags().Changed("height") {
					c.Height = known.Height
				}
			}
			cfg.Workers = 1
			return runCases(cmd.Context(), logger, cfg, []pages.Case{c})
		},
	}
	cmd.Flags().DurationVar(&idle, "idle", 0, "extra settle delay after navigation")
	cmd.Flags().IntVar(&width, "width", 0, "viewport width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "viewport height (default from config)")
	cmd.Flags().StringVar(&keep, "keep-diffs", "", "directory to keep the diff image in")
	return cmd
}
