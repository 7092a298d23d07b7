// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned for point lookups and updates that match no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate row")
)

type Poll struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	IsActive    bool       `db:"is_active"`
	IsPublic    bool       `db:"is_public"`
	ExpiresAt   *time.Time `db:"expires_at"`
	CreatorID   string     `db:"creator_id"`
	VoteCount   int        `db:"vote_count"`
	CreatedAt   time.Time  `db:"created_at"`
}

type Option struct {
	ID        string    `db:"id"`
	PollID    string    `db:"poll_id"`
	Text      string    `db:"option_text"`
	Order     int       `db:"option_order"`
	VoteCount int       `db:"vote_count"`
	CreatedAt time.Time `db:"created_at"`
}

type Vote struct {
	ID               string    `db:"id"`
	PollID           string    `db:"poll_id"`
	PollOptionID     string    `db:"poll_option_id"`
	VoterID          *string   `db:"voter_id"`
	VoterFingerprint string    `db:"voter_fingerprint"`
	VoterIP          *string   `db:"voter_ip"`
	UserAgent        *string   `db:"user_agent"`
	CreatedAt        time.Time `db:"created_at"`
}

// Store is the capability contract the core services run against: point
// lookup, filtered lookup, insert, update, delete, and atomic increment.
// SQL implements it for production; Mem implements it for tests.
//
// The one guarantee implementations must provide beyond per-statement
// atomicity is a uniqueness constraint on (poll_id, voter_fingerprint)
// in votes, surfaced from InsertVote as ErrDuplicate. That constraint is
// what makes one-vote-per-voter hold under concurrent submissions.
type Store interface {
	InsertPoll(ctx context.Context, p *Poll) error
	GetPoll(ctx context.Context, id string) (*Poll, error)
	// UpdatePoll writes the scalar poll fields (title, description,
	// flags, expiry) for p.ID. Counters are not touched.
	UpdatePoll(ctx context.Context, p *Poll) error
	// DeletePoll removes the poll; options and votes cascade.
	DeletePoll(ctx context.Context, id string) error
	ListPollsByCreator(ctx context.Context, creatorID string, limit, offset int) ([]Poll, error)
	ListPublicPolls(ctx context.Context, limit, offset int) ([]Poll, error)

	InsertOption(ctx context.Context, o *Option) error
	GetOption(ctx context.Context, id string) (*Option, error)
	UpdateOption(ctx context.Context, id, text string, order int) error
	DeleteOption(ctx context.Context, id string) error
	// ListOptions returns a poll's options in option_order.
	ListOptions(ctx context.Context, pollID string) ([]Option, error)

	InsertVote(ctx context.Context, v *Vote) error
	// FindVote matches the voter key against voter_id OR voter_fingerprint.
	FindVote(ctx context.Context, pollID, voterKey string) (*Vote, error)
	// CountVotes counts ledger rows for a poll, independent of the
	// denormalized counters, so callers can detect drift.
	CountVotes(ctx context.Context, pollID string) (int, error)
	IncrementOptionVoteCount(ctx context.Context, optionID string, by int) error
	IncrementPollVoteCount(ctx context.Context, pollID string, by int) error
}
