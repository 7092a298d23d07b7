// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// SQL implements Store on a relational database via sqlx. Queries are
// written with ? placeholders and rebound per driver, so the same code
// runs on postgres and sqlite.
type SQL struct {
	db *sqlx.DB
}

func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

// isUniqueViolation matches the constraint error text of both supported
// drivers; neither exposes a portable error code for this.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func (s *SQL) InsertPoll(ctx context.Context, p *Poll) error {
	q := s.db.Rebind(`
		INSERT INTO polls (id, title, description, is_active, is_public, expires_at, creator_id, vote_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.Title, p.Description, p.IsActive, p.IsPublic, p.ExpiresAt, p.CreatorID, p.VoteCount, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert poll %s: %w", p.ID, ErrDuplicate)
		}
		return fmt.Errorf("insert poll: %w", err)
	}
	return nil
}

func (s *SQL) GetPoll(ctx context.Context, id string) (*Poll, error) {
	var p Poll
	q := s.db.Rebind(`
		SELECT id, title, description, is_active, is_public, expires_at, creator_id, vote_count, created_at
		FROM polls WHERE id = ?
	`)
	err := s.db.GetContext(ctx, &p, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get poll: %w", err)
	}
	return &p, nil
}

func (s *SQL) UpdatePoll(ctx context.Context, p *Poll) error {
	q := s.db.Rebind(`
		UPDATE polls
		SET title = ?, description = ?, is_active = ?, is_public = ?, expires_at = ?
		WHERE id = ?
	`)
	res, err := s.db.ExecContext(ctx, q, p.Title, p.Description, p.IsActive, p.IsPublic, p.ExpiresAt, p.ID)
	if err != nil {
		return fmt.Errorf("update poll: %w", err)
	}
	return requireRow(res, "update poll")
}

func (s *SQL) DeletePoll(ctx context.Context, id string) error {
	q := s.db.Rebind(`DELETE FROM polls WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	return requireRow(res, "delete poll")
}

func (s *SQL) ListPollsByCreator(ctx context.Context, creatorID string, limit, offset int) ([]Poll, error) {
	polls := []Poll{}
	q := s.db.Rebind(`
		SELECT id, title, description, is_active, is_public, expires_at, creator_id, vote_count, created_at
		FROM polls WHERE creator_id = ?
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`)
	if err := s.db.SelectContext(ctx, &polls, q, creatorID, limit, offset); err != nil {
		return nil, fmt.Errorf("list polls by creator: %w", err)
	}
	return polls, nil
}

func (s *SQL) ListPublicPolls(ctx context.Context, limit, offset int) ([]Poll, error) {
	polls := []Poll{}
	q := s.db.Rebind(`
		SELECT id, title, description, is_active, is_public, expires_at, creator_id, vote_count, created_at
		FROM polls WHERE is_public = ? AND is_active = ?
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`)
	if err := s.db.SelectContext(ctx, &polls, q, true, true, limit, offset); err != nil {
		return nil, fmt.Errorf("list public polls: %w", err)
	}
	return polls, nil
}

func (s *SQL) InsertOption(ctx context.Context, o *Option) error {
	q := s.db.Rebind(`
		INSERT INTO poll_options (id, poll_id, option_text, option_order, vote_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, q, o.ID, o.PollID, o.Text, o.Order, o.VoteCount, o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert option %s: %w", o.ID, ErrDuplicate)
		}
		return fmt.Errorf("insert option: %w", err)
	}
	return nil
}

func (s *SQL) GetOption(ctx context.Context, id string) (*Option, error) {
	var o Option
	q := s.db.Rebind(`
		SELECT id, poll_id, option_text, option_order, vote_count, created_at
		FROM poll_options WHERE id = ?
	`)
	err := s.db.GetContext(ctx, &o, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get option: %w", err)
	}
	return &o, nil
}

func (s *SQL) UpdateOption(ctx context.Context, id, text string, order int) error {
	q := s.db.Rebind(`UPDATE poll_options SET option_text = ?, option_order = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, text, order, id)
	if err != nil {
		return fmt.Errorf("update option: %w", err)
	}
	return requireRow(res, "update option")
}

func (s *SQL) DeleteOption(ctx context.Context, id string) error {
	q := s.db.Rebind(`DELETE FROM poll_options WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete option: %w", err)
	}
	return requireRow(res, "delete option")
}

func (s *SQL) ListOptions(ctx context.Context, pollID string) ([]Option, error) {
	options := []Option{}
	q := s.db.Rebind(`
		SELECT id, poll_id, option_text, option_order, vote_count, created_at
		FROM poll_options WHERE poll_id = ?
		ORDER BY option_order, id
	`)
	if err := s.db.SelectContext(ctx, &options, q, pollID); err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	return options, nil
}

func (s *SQL) InsertVote(ctx context.Context, v *Vote) error {
	q := s.db.Rebind(`
		INSERT INTO votes (id, poll_id, poll_option_id, voter_id, voter_fingerprint, voter_ip, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, q,
		v.ID, v.PollID, v.PollOptionID, v.VoterID, v.VoterFingerprint, v.VoterIP, v.UserAgent, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert vote for poll %s: %w", v.PollID, ErrDuplicate)
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (s *SQL) FindVote(ctx context.Context, pollID, voterKey string) (*Vote, error) {
	var v Vote
	q := s.db.Rebind(`
		SELECT id, poll_id, poll_option_id, voter_id, voter_fingerprint, voter_ip, user_agent, created_at
		FROM votes
		WHERE poll_id = ? AND (voter_id = ? OR voter_fingerprint = ?)
		LIMIT 1
	`)
	err := s.db.GetContext(ctx, &v, q, pollID, voterKey, voterKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return &v, nil
}

func (s *SQL) CountVotes(ctx context.Context, pollID string) (int, error) {
	var n int
	q := s.db.Rebind(`SELECT COUNT(*) FROM votes WHERE poll_id = ?`)
	if err := s.db.GetContext(ctx, &n, q, pollID); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}

func (s *SQL) IncrementOptionVoteCount(ctx context.Context, optionID string, by int) error {
	q := s.db.Rebind(`UPDATE poll_options SET vote_count = vote_count + ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, by, optionID)
	if err != nil {
		return fmt.Errorf("increment option vote count: %w", err)
	}
	return requireRow(res, "increment option vote count")
}

func (s *SQL) IncrementPollVoteCount(ctx context.Context, pollID string, by int) error {
	q := s.db.Rebind(`UPDATE polls SET vote_count = vote_count + ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, by, pollID)
	if err != nil {
		return fmt.Errorf("increment poll vote count: %w", err)
	}
	return requireRow(res, "increment poll vote count")
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
