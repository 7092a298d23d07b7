package voting

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/pollstand/store"
	"github.com/danielhkuo/pollstand/testutil"
)

func TestResolveVoterKey(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		fingerprint string
		wantVoterID string
		wantKey     string
		wantErr     error
	}{
		{
			name:        "authenticated user",
			userID:      "user-1",
			wantVoterID: "user-1",
			wantKey:     "user-1",
		},
		{
			name:        "authenticated user ignores fingerprint",
			userID:      "user-1",
			fingerprint: "fp-abc",
			wantVoterID: "user-1",
			wantKey:     "user-1",
		},
		{
			name:        "anonymous with fingerprint",
			fingerprint: "fp-abc",
			wantVoterID: "",
			wantKey:     "fp-abc",
		},
		{
			name:    "anonymous without fingerprint",
			wantErr: ErrMissingIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voterID, key, err := ResolveVoterKey(tt.userID, tt.fingerprint)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
			if voterID != tt.wantVoterID {
				t.Errorf("Expected voterID %q, got %q", tt.wantVoterID, voterID)
			}
			if key != tt.wantKey {
				t.Errorf("Expected voterKey %q, got %q", tt.wantKey, key)
			}
		})
	}
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()
	m := store.NewMem()
	engine := NewEngine(m, nil)

	activePoll, activeOpts := testutil.CreateTestPoll(t, m, "creator-1", true, "Red", "Blue")
	pausedPoll, pausedOpts := testutil.CreateTestPoll(t, m, "creator-1", false, "Yes", "No")

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "missing identifier",
			req:     Request{PollID: activePoll, OptionID: activeOpts[0]},
			wantErr: ErrMissingIdentifier,
		},
		{
			name:    "poll not found",
			req:     Request{PollID: "nope", OptionID: activeOpts[0], Fingerprint: "fp-1"},
			wantErr: ErrPollNotFound,
		},
		{
			name:    "inactive poll",
			req:     Request{PollID: pausedPoll, OptionID: pausedOpts[0], Fingerprint: "fp-1"},
			wantErr: ErrPollInactive,
		},
		{
			name:    "option not found",
			req:     Request{PollID: activePoll, OptionID: "nope", Fingerprint: "fp-1"},
			wantErr: ErrOptionNotFound,
		},
		{
			name:    "option belongs to another poll",
			req:     Request{PollID: activePoll, OptionID: pausedOpts[0], Fingerprint: "fp-1"},
			wantErr: ErrOptionNotFound,
		},
		{
			name: "anonymous vote succeeds",
			req:  Request{PollID: activePoll, OptionID: activeOpts[1], Fingerprint: "fp-1", VoterIP: "10.0.0.1", UserAgent: "test-agent"},
		},
		{
			name:    "same fingerprint is a duplicate",
			req:     Request{PollID: activePoll, OptionID: activeOpts[0], Fingerprint: "fp-1"},
			wantErr: ErrDuplicateVote,
		},
		{
			name: "authenticated vote succeeds",
			req:  Request{PollID: activePoll, OptionID: activeOpts[0], UserID: "user-1"},
		},
		{
			name:    "same user with a fresh fingerprint is still a duplicate",
			req:     Request{PollID: activePoll, OptionID: activeOpts[0], UserID: "user-1", Fingerprint: "fp-other"},
			wantErr: ErrDuplicateVote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.CastVote(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}

	// Two successful votes landed: fp-1 on Blue, user-1 on Red
	poll, err := m.GetPoll(ctx, activePoll)
	if err != nil {
		t.Fatalf("Failed to load poll: %v", err)
	}
	if poll.VoteCount != 2 {
		t.Errorf("Expected poll vote_count 2, got %d", poll.VoteCount)
	}

	ledger, err := m.CountVotes(ctx, activePoll)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if ledger != 2 {
		t.Errorf("Expected 2 vote rows, got %d", ledger)
	}

	// The paused poll never recorded anything
	pausedLedger, _ := m.CountVotes(ctx, pausedPoll)
	if pausedLedger != 0 {
		t.Errorf("Expected 0 votes on paused poll, got %d", pausedLedger)
	}
	paused, _ := m.GetPoll(ctx, pausedPoll)
	if paused.VoteCount != 0 {
		t.Errorf("Expected paused poll vote_count 0, got %d", paused.VoteCount)
	}

	// Audit metadata captured on the anonymous vote
	v, err := m.FindVote(ctx, activePoll, "fp-1")
	if err != nil {
		t.Fatalf("Failed to find anonymous vote: %v", err)
	}
	if v.VoterID != nil {
		t.Error("Anonymous vote should have no voter_id")
	}
	if v.VoterIP == nil || *v.VoterIP != "10.0.0.1" {
		t.Error("Expected voter_ip to be captured")
	}
	if v.UserAgent == nil || *v.UserAgent != "test-agent" {
		t.Error("Expected user_agent to be captured")
	}
}

func TestCastVoteCounterConsistency(t *testing.T) {
	ctx := context.Background()
	m := store.NewMem()
	engine := NewEngine(m, nil)

	pollID, optIDs := testutil.CreateTestPoll(t, m, "creator-1", true, "A", "B", "C")

	votes := []struct {
		fingerprint string
		option      string
	}{
		{"fp-1", optIDs[0]},
		{"fp-2", optIDs[0]},
		{"fp-3", optIDs[1]},
		{"fp-4", optIDs[2]},
		{"fp-5", optIDs[0]},
	}
	for _, v := range votes {
		if err := engine.CastVote(ctx, Request{PollID: pollID, OptionID: v.option, Fingerprint: v.fingerprint}); err != nil {
			t.Fatalf("CastVote(%s) failed: %v", v.fingerprint, err)
		}
	}

	poll, _ := m.GetPoll(ctx, pollID)
	options, _ := m.ListOptions(ctx, pollID)
	ledger, _ := m.CountVotes(ctx, pollID)

	sum := 0
	for _, o := range options {
		sum += o.VoteCount
	}

	if poll.VoteCount != len(votes) {
		t.Errorf("Expected poll vote_count %d, got %d", len(votes), poll.VoteCount)
	}
	if sum != poll.VoteCount {
		t.Errorf("Option counts sum to %d, poll counter says %d", sum, poll.VoteCount)
	}
	if ledger != poll.VoteCount {
		t.Errorf("Ledger has %d rows, poll counter says %d", ledger, poll.VoteCount)
	}

	if options[0].VoteCount != 3 || options[1].VoteCount != 1 || options[2].VoteCount != 1 {
		t.Errorf("Unexpected per-option counts: %d/%d/%d",
			options[0].VoteCount, options[1].VoteCount, options[2].VoteCount)
	}
}

// failingStore makes counter increments fail on demand.
type failingStore struct {
	store.Store
	failOptionIncrement bool
	failPollIncrement   bool
}

func (f *failingStore) IncrementOptionVoteCount(ctx context.Context, optionID string, by int) error {
	if f.failOptionIncrement {
		return errors.New("connection reset")
	}
	return f.Store.IncrementOptionVoteCount(ctx, optionID, by)
}

func (f *failingStore) IncrementPollVoteCount(ctx context.Context, pollID string, by int) error {
	if f.failPollIncrement {
		return errors.New("connection reset")
	}
	return f.Store.IncrementPollVoteCount(ctx, pollID, by)
}

func TestCastVotePartialFailure(t *testing.T) {
	ctx := context.Background()
	m := store.NewMem()
	fs := &failingStore{Store: m, failPollIncrement: true}
	engine := NewEngine(fs, nil)

	pollID, optIDs := testutil.CreateTestPoll(t, m, "creator-1", true, "Red", "Blue")

	err := engine.CastVote(ctx, Request{PollID: pollID, OptionID: optIDs[0], Fingerprint: "fp-1"})

	var pfe *PartialFailureError
	if !errors.As(err, &pfe) {
		t.Fatalf("Expected PartialFailureError, got %v", err)
	}
	if pfe.Stage != "poll vote count update" {
		t.Errorf("Expected poll counter stage, got %q", pfe.Stage)
	}

	// The vote row and the option counter landed; the poll counter is
	// behind. This drift must be detectable.
	ledger, _ := m.CountVotes(ctx, pollID)
	if ledger != 1 {
		t.Fatalf("Expected 1 vote row, got %d", ledger)
	}
	options, _ := m.ListOptions(ctx, pollID)
	if options[0].VoteCount != 1 {
		t.Errorf("Expected option counter 1, got %d", options[0].VoteCount)
	}
	poll, _ := m.GetPoll(ctx, pollID)
	if poll.VoteCount != 0 {
		t.Errorf("Expected poll counter 0 (drift), got %d", poll.VoteCount)
	}
	if poll.VoteCount == ledger {
		t.Error("Expected counter drift to be observable")
	}
}

func TestConcurrentSameVoter(t *testing.T) {
	ctx := context.Background()
	m := store.NewMem()
	engine := NewEngine(m, nil)

	pollID, optIDs := testutil.CreateTestPoll(t, m, "creator-1", true, "Red", "Blue")

	const attempts = 8
	var successes, duplicates atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := engine.CastVote(ctx, Request{
				PollID:      pollID,
				OptionID:    optIDs[n%2],
				Fingerprint: "fp-racer",
			})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrDuplicateVote):
				duplicates.Add(1)
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Errorf("Expected exactly 1 success, got %d", successes.Load())
	}
	if duplicates.Load() != attempts-1 {
		t.Errorf("Expected %d duplicates, got %d", attempts-1, duplicates.Load())
	}

	poll, _ := m.GetPoll(ctx, pollID)
	ledger, _ := m.CountVotes(ctx, pollID)
	if poll.VoteCount != 1 || ledger != 1 {
		t.Errorf("Expected one recorded vote, got counter=%d ledger=%d", poll.VoteCount, ledger)
	}
}

func TestCastVoteSignalsInvalidation(t *testing.T) {
	ctx := context.Background()
	m := store.NewMem()

	var invalidated []string
	engine := NewEngine(m, func(pollID string) {
		invalidated = append(invalidated, pollID)
	})

	pollID, optIDs := testutil.CreateTestPoll(t, m, "creator-1", true, "Red", "Blue")

	if err := engine.CastVote(ctx, Request{PollID: pollID, OptionID: optIDs[0], Fingerprint: "fp-1"}); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if len(invalidated) != 1 || invalidated[0] != pollID {
		t.Errorf("Expected one invalidation for %s, got %v", pollID, invalidated)
	}

	// A rejected vote must not signal
	_ = engine.CastVote(ctx, Request{PollID: pollID, OptionID: optIDs[0], Fingerprint: "fp-1"})
	if len(invalidated) != 1 {
		t.Errorf("Expected no invalidation on duplicate, got %v", invalidated)
	}
}
