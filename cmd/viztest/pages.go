package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/viztest/internal/config"
)

func newPagesCmd(g *globalFlags) *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List active and excluded pages, or seed a page database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(g.logLevel)
			cfg, err := loadConfig(cmd.Context(), g, logger)
			if err != nil {
				return err
			}

			if seed != "" {
				db, err := config.OpenPagesDB(seed)
				if err != nil {
					return fmt.Errorf("open pages db: %w", err)
				}
				defer db.Close()
				if err := config.SeedPages(cmd.Context(), db, cfg.ActivePages(), cfg.Exclusions()); err != nil {
					return err
				}
				color.Green("✓ wrote %d active and %d excluded pages to %s",
					len(cfg.ActivePages()), len(cfg.Exclusions()), seed)
				return nil
			}

			out := cmd.OutOrStdout()
			color.New(color.FgCyan).Fprintf(out, "Active (%d)\n", len(cfg.ActivePages()))
			for _, c := range cfg.ActivePages() {
				line := "  " + c.Path
				if c.Width > 0 || c.Height > 0 || c.IdleDelay > 0 {
					line += fmt.Sprintf("  [%dx%d idle %s]", c.Width, c.Height, c.IdleDelay)
				}
				fmt.Fprintln(out, line)
			}
			color.New(color.FgYellow).Fprintf(out, "Excluded (%d)\n", len(cfg.Exclusions()))
			for _, e := range cfg.Exclusions() {
				fmt.Fprintf(out, "  %s  (%s)\n", e.Path, e.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "write the page list to this SQLite database and exit")
	return cmd
}
