// CLAUDE:SUMMARY Loads and seeds the ordered page list (active and excluded) from the viz_pages SQLite table.
package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/viztest/dbopen"
	"github.com/hazyhaar/viztest/pages"
)

// Schema for the viz_pages table. Rows are compared in position order;
// status 'excluded' rows carry the reason the page is skipped.
const Schema = `
CREATE TABLE IF NOT EXISTS viz_pages (
	path           TEXT PRIMARY KEY,
	position       INTEGER NOT NULL,
	idle_delay_ms  INTEGER DEFAULT 0,
	width          INTEGER DEFAULT 0,
	height         INTEGER DEFAULT 0,
	status         TEXT DEFAULT 'active',
	reason         TEXT DEFAULT '',
	updated_at     INTEGER NOT NULL
);
`

// OpenPagesDB opens (or creates) the page database at path.
func OpenPagesDB(path string) (*sql.DB, error) {
	return dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
}

// LoadPages reads the page list: active cases in position order, and the
// excluded pages with their reasons.
func LoadPages(ctx context.Context, db *sql.DB) ([]pages.Case, []pages.Exclusion, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT path, idle_delay_ms, width, height, status, reason
		FROM viz_pages
		ORDER BY position, path
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("config: load pages: %w", err)
	}
	defer rows.Close()

	var cases []pages.Case
	var excluded []pages.Exclusion
	for rows.Next() {
		var c pages.Case
		var idleMs int64
		var status, reason string
		if err := rows.Scan(&c.Path, &idleMs, &c.Width, &c.Height, &status, &reason); err != nil {
			return nil, nil, fmt.Errorf("config: scan page: %w", err)
		}
		switch status {
		case "active":
			c.IdleDelay = time.Duration(idleMs) * time.Millisecond
			cases = append(cases, c)
		case "excluded":
			excluded = append(excluded, pages.Exclusion{Path: c.Path, Reason: reason})
		}
	}
	return cases, excluded, rows.Err()
}

// SeedPages replaces the table content with the given list.
func SeedPages(ctx context.Context, db *sql.DB, cases []pages.Case, excluded []pages.Exclusion) error {
	now := time.Now().UnixMilli()
	return dbopen.RunTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM viz_pages`); err != nil {
			return fmt.Errorf("config: clear pages: %w", err)
		}
		const ins = `INSERT INTO viz_pages
			(path, position, idle_delay_ms, width, height, status, reason, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		for i, c := range cases {
			if _, err := tx.ExecContext(ctx, ins, c.Path, i, c.IdleDelay.Milliseconds(),
				c.Width, c.Height, "active", "", now); err != nil {
				return fmt.Errorf("config: insert %s: %w", c.Path, err)
			}
		}
		for i, e := range excluded {
			if _, err := tx.ExecContext(ctx, ins, e.Path, len(cases)+i, 0,
				0, 0, "excluded", e.Reason, now); err != nil {
				return fmt.Errorf("config: insert %s: %w", e.Path, err)
			}
		}
		return nil
	})
}

// UsePagesDB replaces the configured page list with the one stored in db.
func (c *Config) UsePagesDB(ctx context.Context, db *sql.DB) error {
	cases, excluded, err := LoadPages(ctx, db)
	if err != nil {
		return err
	}
	c.Pages = cases
	c.Excluded = make(map[string]string, len(excluded))
	for _, e := range excluded {
		c.Excluded[e.Path] = e.Reason
	}
	return nil
}
