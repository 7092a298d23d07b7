// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/pollstand/auth"
	"github.com/danielhkuo/pollstand/store"
)

var (
	ErrMissingIdentifier = errors.New("missing voter identifier for anonymous vote")
	ErrPollNotFound      = errors.New("poll not found")
	ErrPollInactive      = errors.New("this poll is not active")
	ErrOptionNotFound    = errors.New("poll option not found")
	ErrDuplicateVote     = errors.New("you have already voted on this poll")
)

// PartialFailureError reports that the vote row was recorded but a
// later counter update failed. The vote ledger is then ahead of the
// denormalized counters; nothing is rolled back.
type PartialFailureError struct {
	Stage string
	Err   error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("vote recorded but %s failed: %v", e.Stage, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// ResolveVoterKey derives the durable key used for duplicate detection.
// An authenticated user's id doubles as their fingerprint, so a
// signed-in user cannot also cast an anonymous-looking vote under a
// made-up fingerprint. Pure function, no side effects.
func ResolveVoterKey(userID, fingerprint string) (voterID, voterKey string, err error) {
	if userID != "" {
		return userID, userID, nil
	}
	if fingerprint != "" {
		return "", fingerprint, nil
	}
	return "", "", ErrMissingIdentifier
}

// Request carries everything CastVote needs from the transport layer.
type Request struct {
	PollID   string
	OptionID string
	// UserID is the authenticated caller, empty for anonymous.
	UserID      string
	Fingerprint string
	VoterIP     string
	UserAgent   string
}

// Engine records votes. Each call is an independent short-lived
// operation against the store; there is no in-process shared state.
type Engine struct {
	store store.Store
	// invalidate signals external caches/views after a recorded vote.
	invalidate func(pollID string)
}

// NewEngine creates a vote recording engine. invalidate may be nil.
func NewEngine(s store.Store, invalidate func(pollID string)) *Engine {
	return &Engine{store: s, invalidate: invalidate}
}

// CastVote validates eligibility, rejects duplicates, persists the vote,
// and increments the option and poll counters. The step order matters:
// the duplicate check runs immediately before the insert, and the insert
// itself is conditional on the store's (poll_id, voter_fingerprint)
// uniqueness constraint, so two racing submissions cannot both land.
//
// Steps already committed are not rolled back on a later failure: a
// failed counter increment after the vote insert returns
// *PartialFailureError and leaves the ledger ahead of the counters.
func (e *Engine) CastVote(ctx context.Context, req Request) error {
	voterID, voterKey, err := ResolveVoterKey(req.UserID, req.Fingerprint)
	if err != nil {
		return err
	}

	poll, err := e.store.GetPoll(ctx, req.PollID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("load poll: %w", err)
	}
	if !poll.IsActive {
		return ErrPollInactive
	}
	// expires_at is advisory and not checked here

	opt, err := e.store.GetOption(ctx, req.OptionID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrOptionNotFound
	}
	if err != nil {
		return fmt.Errorf("load option: %w", err)
	}
	if opt.PollID != poll.ID {
		return ErrOptionNotFound
	}

	// Duplicate check: OR-match against voter_id and voter_fingerprint
	// catches an authenticated user's earlier anonymous vote and vice versa.
	_, err = e.store.FindVote(ctx, poll.ID, voterKey)
	if err == nil {
		return ErrDuplicateVote
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check existing vote: %w", err)
	}

	vote := &store.Vote{
		ID:               auth.NewID(),
		PollID:           poll.ID,
		PollOptionID:     opt.ID,
		VoterFingerprint: voterKey,
		CreatedAt:        time.Now().UTC(),
	}
	if voterID != "" {
		vote.VoterID = &voterID
	}
	if req.VoterIP != "" {
		vote.VoterIP = &req.VoterIP
	}
	if req.UserAgent != "" {
		vote.UserAgent = &req.UserAgent
	}

	if err := e.store.InsertVote(ctx, vote); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// lost the race between check and insert; the unique
			// constraint is the authoritative answer
			return ErrDuplicateVote
		}
		return fmt.Errorf("insert vote: %w", err)
	}

	if err := e.store.IncrementOptionVoteCount(ctx, opt.ID, 1); err != nil {
		return &PartialFailureError{Stage: "option vote count update", Err: err}
	}
	if err := e.store.IncrementPollVoteCount(ctx, poll.ID, 1); err != nil {
		return &PartialFailureError{Stage: "poll vote count update", Err: err}
	}

	if e.invalidate != nil {
		e.invalidate(poll.ID)
	}
	return nil
}
