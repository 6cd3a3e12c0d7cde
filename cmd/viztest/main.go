// CLAUDE:SUMMARY CLI entry point for viztest: compare pages between the development and legacy sites, list and seed the page list.
// Command viztest compares how pages render on the development site and on
// the legacy site.
//
// Usage:
//
//	viztest run                             # compare every active page
//	viztest run -c viztest.yaml --workers 4 # pages and origins from YAML
//	viztest run --pages-db pages.db         # page list from SQLite
//	viztest compare c4/echo --idle 800ms    # one page
//	viztest pages                           # list active and excluded pages
//	viztest pages --seed pages.db           # write the page list to SQLite
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hazyhaar/viztest/internal/config"
)

type globalFlags struct {
	configPath string
	pagesDB    string
	envFile    string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "viztest",
		Short:         "Visual parity check between the development and legacy sites",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "path to viztest.yaml")
	root.PersistentFlags().StringVar(&g.pagesDB, "pages-db", "", "read the page list from this SQLite database")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file with VIZTEST_* overrides (ignored if missing)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newRunCmd(g), newCompareCmd(g), newPagesCmd(g))
	return root
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// loadConfig builds the effective configuration: file (or defaults), then
// the SQLite page list, then the environment.
func loadConfig(ctx context.Context, g *globalFlags, logger *slog.Logger) (*config.Config, error) {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := config.Default()
	if g.configPath != "" {
		var err error
		cfg, err = config.LoadFile(g.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if g.pagesDB != "" {
		db, err := config.OpenPagesDB(g.pagesDB)
		if err != nil {
			return nil, fmt.Errorf("open pages db: %w", err)
		}
		defer db.Close()
		if err := cfg.UsePagesDB(ctx, db); err != nil {
			return nil, err
		}
		logger.Info("viztest: page list from database", "path", g.pagesDB, "pages", len(cfg.Pages))
	}

	cfg.ApplyEnv()
	return cfg, nil
}
