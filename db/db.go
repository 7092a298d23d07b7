// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/pollstand/cliparse"
)

func init() {
	// modernc's driver registers as "sqlite"; sqlx needs to know it
	// takes ? placeholders so Rebind leaves query text alone.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open connects to the configured database. Queries throughout the
// codebase are written with ? placeholders and passed through
// sqlx.Rebind, so the same query text serves both drivers.
func Open(cfg cliparse.Config) (*sqlx.DB, error) {
	switch cfg.DatabaseType {
	case "postgres":
		conn, err := sqlx.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return conn, nil
	case "sqlite":
		dsn := cfg.DatabaseURL
		if !strings.Contains(dsn, "_pragma") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			// Cascading deletes need foreign_keys on; busy_timeout
			// keeps concurrent writers from failing fast with SQLITE_BUSY.
			dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
		conn, err := sqlx.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// sqlite allows one writer at a time; serialize at the pool
		conn.SetMaxOpenConns(1)
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}
