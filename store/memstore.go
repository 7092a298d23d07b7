// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Mem is an in-memory Store used by the core package tests. It provides
// the same guarantees as SQL: per-call atomicity (one mutex) and the
// uniqueness constraint on (poll_id, voter_fingerprint).
type Mem struct {
	mu      sync.Mutex
	polls   map[string]Poll
	options map[string]Option
	votes   map[string]Vote
}

func NewMem() *Mem {
	return &Mem{
		polls:   make(map[string]Poll),
		options: make(map[string]Option),
		votes:   make(map[string]Vote),
	}
}

func (m *Mem) InsertPoll(ctx context.Context, p *Poll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.polls[p.ID]; ok {
		return fmt.Errorf("insert poll %s: %w", p.ID, ErrDuplicate)
	}
	m.polls[p.ID] = *p
	return nil
}

func (m *Mem) GetPoll(ctx context.Context, id string) (*Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.polls[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Mem) UpdatePoll(ctx context.Context, p *Poll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.polls[p.ID]
	if !ok {
		return fmt.Errorf("update poll: %w", ErrNotFound)
	}
	cur.Title = p.Title
	cur.Description = p.Description
	cur.IsActive = p.IsActive
	cur.IsPublic = p.IsPublic
	cur.ExpiresAt = p.ExpiresAt
	m.polls[p.ID] = cur
	return nil
}

func (m *Mem) DeletePoll(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.polls[id]; !ok {
		return fmt.Errorf("delete poll: %w", ErrNotFound)
	}
	delete(m.polls, id)
	// cascade, matching the SQL foreign keys
	for oid, o := range m.options {
		if o.PollID == id {
			delete(m.options, oid)
		}
	}
	for vid, v := range m.votes {
		if v.PollID == id {
			delete(m.votes, vid)
		}
	}
	return nil
}

func (m *Mem) ListPollsByCreator(ctx context.Context, creatorID string, limit, offset int) ([]Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var polls []Poll
	for _, p := range m.polls {
		if p.CreatorID == creatorID {
			polls = append(polls, p)
		}
	}
	return pagePolls(polls, limit, offset), nil
}

func (m *Mem) ListPublicPolls(ctx context.Context, limit, offset int) ([]Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var polls []Poll
	for _, p := range m.polls {
		if p.IsPublic && p.IsActive {
			polls = append(polls, p)
		}
	}
	return pagePolls(polls, limit, offset), nil
}

func pagePolls(polls []Poll, limit, offset int) []Poll {
	sort.Slice(polls, func(i, j int) bool {
		if !polls[i].CreatedAt.Equal(polls[j].CreatedAt) {
			return polls[i].CreatedAt.After(polls[j].CreatedAt)
		}
		return polls[i].ID < polls[j].ID
	})
	if offset >= len(polls) {
		return []Poll{}
	}
	polls = polls[offset:]
	if limit < len(polls) {
		polls = polls[:limit]
	}
	return polls
}

func (m *Mem) InsertOption(ctx context.Context, o *Option) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.options[o.ID]; ok {
		return fmt.Errorf("insert option %s: %w", o.ID, ErrDuplicate)
	}
	m.options[o.ID] = *o
	return nil
}

func (m *Mem) GetOption(ctx context.Context, id string) (*Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.options[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (m *Mem) UpdateOption(ctx context.Context, id, text string, order int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.options[id]
	if !ok {
		return fmt.Errorf("update option: %w", ErrNotFound)
	}
	o.Text = text
	o.Order = order
	m.options[id] = o
	return nil
}

func (m *Mem) DeleteOption(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.options[id]; !ok {
		return fmt.Errorf("delete option: %w", ErrNotFound)
	}
	// votes referencing the option are deliberately left in place
	delete(m.options, id)
	return nil
}

func (m *Mem) ListOptions(ctx context.Context, pollID string) ([]Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	options := []Option{}
	for _, o := range m.options {
		if o.PollID == pollID {
			options = append(options, o)
		}
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].Order != options[j].Order {
			return options[i].Order < options[j].Order
		}
		return options[i].ID < options[j].ID
	})
	return options, nil
}

func (m *Mem) InsertVote(ctx context.Context, v *Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.votes[v.ID]; ok {
		return fmt.Errorf("insert vote %s: %w", v.ID, ErrDuplicate)
	}
	for _, existing := range m.votes {
		if existing.PollID == v.PollID && existing.VoterFingerprint == v.VoterFingerprint {
			return fmt.Errorf("insert vote for poll %s: %w", v.PollID, ErrDuplicate)
		}
	}
	m.votes[v.ID] = *v
	return nil
}

func (m *Mem) FindVote(ctx context.Context, pollID, voterKey string) (*Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.votes {
		if v.PollID != pollID {
			continue
		}
		if v.VoterFingerprint == voterKey || (v.VoterID != nil && *v.VoterID == voterKey) {
			found := v
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Mem) CountVotes(ctx context.Context, pollID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.votes {
		if v.PollID == pollID {
			n++
		}
	}
	return n, nil
}

func (m *Mem) IncrementOptionVoteCount(ctx context.Context, optionID string, by int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.options[optionID]
	if !ok {
		return fmt.Errorf("increment option vote count: %w", ErrNotFound)
	}
	o.VoteCount += by
	m.options[optionID] = o
	return nil
}

func (m *Mem) IncrementPollVoteCount(ctx context.Context, pollID string, by int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.polls[pollID]
	if !ok {
		return fmt.Errorf("increment poll vote count: %w", ErrNotFound)
	}
	p.VoteCount += by
	m.polls[pollID] = p
	return nil
}
