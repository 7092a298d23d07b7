// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. Statements are
// executed one at a time so the same DDL works on sqlite and postgres.
func CreateSchema(db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS polls (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		expires_at TIMESTAMP,
		creator_id TEXT NOT NULL,
		vote_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_polls_creator ON polls(creator_id)`,
	`CREATE INDEX IF NOT EXISTS idx_polls_public ON polls(is_public, is_active)`,

	`CREATE TABLE IF NOT EXISTS poll_options (
		id TEXT PRIMARY KEY,
		poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
		option_text TEXT NOT NULL,
		option_order INTEGER NOT NULL,
		vote_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_poll_options_poll ON poll_options(poll_id)`,

	// votes reference options by id only (no FK): editing a poll may
	// delete an option that still has votes, and those rows are kept
	// as ledger history rather than cascaded away.
	// UNIQUE (poll_id, voter_fingerprint) is the one-vote-per-voter
	// guarantee; an authenticated voter's fingerprint is their user id,
	// so the key covers both identity kinds.
	`CREATE TABLE IF NOT EXISTS votes (
		id TEXT PRIMARY KEY,
		poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
		poll_option_id TEXT NOT NULL,
		voter_id TEXT,
		voter_fingerprint TEXT NOT NULL,
		voter_ip TEXT,
		user_agent TEXT,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (poll_id, voter_fingerprint)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_votes_poll ON votes(poll_id)`,
	`CREATE INDEX IF NOT EXISTS idx_votes_option ON votes(poll_option_id)`,
	`CREATE INDEX IF NOT EXISTS idx_votes_voter ON votes(poll_id, voter_id)`,
}
