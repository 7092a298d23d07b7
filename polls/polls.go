// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/pollstand/auth"
	"github.com/danielhkuo/pollstand/store"
)

var (
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrUnauthorized    = errors.New("unauthorized: you are not the creator of this poll")
	ErrPollNotFound    = errors.New("poll not found")
)

// PageSize is the number of polls per listing page.
const PageSize = 20

// OptionSpec describes one option in a poll spec. ID is set when the
// caller is editing an existing option; empty means a new option.
type OptionSpec struct {
	ID   string
	Text string
}

// Spec is the validated input for creating or updating a poll.
type Spec struct {
	Title       string
	Description string
	IsActive    bool
	IsPublic    bool
	ExpiresAt   *time.Time
	Options     []OptionSpec
}

// Service mutates and reads polls.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Create validates the spec, persists the poll with the caller as
// creator, then persists the options with dense order. If an option
// insert fails after the poll row is committed, the just-created poll
// is deleted (best effort) before the error is returned.
func (s *Service) Create(ctx context.Context, creatorID string, spec Spec) (string, error) {
	if err := ValidateSpec(spec); err != nil {
		return "", err
	}
	if creatorID == "" {
		return "", ErrUnauthenticated
	}

	now := time.Now().UTC()
	poll := &store.Poll{
		ID:          auth.NewID(),
		Title:       spec.Title,
		Description: spec.Description,
		IsActive:    spec.IsActive,
		IsPublic:    spec.IsPublic,
		ExpiresAt:   spec.ExpiresAt,
		CreatorID:   creatorID,
		CreatedAt:   now,
	}
	if err := s.store.InsertPoll(ctx, poll); err != nil {
		return "", fmt.Errorf("insert poll: %w", err)
	}

	for i, o := range spec.Options {
		opt := &store.Option{
			ID:        auth.NewID(),
			PollID:    poll.ID,
			Text:      o.Text,
			Order:     i,
			CreatedAt: now,
		}
		if err := s.store.InsertOption(ctx, opt); err != nil {
			if delErr := s.store.DeletePoll(ctx, poll.ID); delErr != nil {
				slog.Warn("cleanup of half-created poll failed", "poll_id", poll.ID, "error", delErr)
			}
			return "", fmt.Errorf("insert option: %w", err)
		}
	}

	slog.Info("poll created", "poll_id", poll.ID, "creator_id", creatorID, "options", len(spec.Options))
	return poll.ID, nil
}

// Update rewrites the poll's scalar fields and reconciles its option
// list against the spec: options carrying a known id are updated (text
// plus recomputed dense order), id-less options are inserted, and
// existing options missing from the spec are deleted. Execution order:
// update poll row, delete removed, insert new, update remaining.
//
// Only the creator may update, regardless of payload validity.
func (s *Service) Update(ctx context.Context, callerID, pollID string, spec Spec) error {
	if callerID == "" {
		return ErrUnauthenticated
	}

	existing, err := s.store.GetPoll(ctx, pollID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("load poll: %w", err)
	}
	if existing.CreatorID != callerID {
		return ErrUnauthorized
	}

	if err := ValidateSpec(spec); err != nil {
		return err
	}

	existing.Title = spec.Title
	existing.Description = spec.Description
	existing.IsActive = spec.IsActive
	existing.IsPublic = spec.IsPublic
	existing.ExpiresAt = spec.ExpiresAt
	if err := s.store.UpdatePoll(ctx, existing); err != nil {
		return fmt.Errorf("update poll: %w", err)
	}

	current, err := s.store.ListOptions(ctx, pollID)
	if err != nil {
		return fmt.Errorf("list options: %w", err)
	}
	currentByID := make(map[string]store.Option, len(current))
	for _, o := range current {
		currentByID[o.ID] = o
	}

	keep := make(map[string]bool, len(spec.Options))
	var inserts []store.Option
	type optionUpdate struct {
		id    string
		text  string
		order int
	}
	var updates []optionUpdate

	now := time.Now().UTC()
	for i, o := range spec.Options {
		if o.ID != "" {
			if _, ok := currentByID[o.ID]; ok {
				keep[o.ID] = true
				updates = append(updates, optionUpdate{id: o.ID, text: o.Text, order: i})
				continue
			}
		}
		// unknown or missing id: treat as a brand-new option
		inserts = append(inserts, store.Option{
			ID:        auth.NewID(),
			PollID:    pollID,
			Text:      o.Text,
			Order:     i,
			CreatedAt: now,
		})
	}

	for _, o := range current {
		if keep[o.ID] {
			continue
		}
		if o.VoteCount > 0 {
			// votes referencing this option stay in the ledger as
			// orphans; surfaced here so the gap is observable
			slog.Warn("deleting option that still has votes",
				"poll_id", pollID, "option_id", o.ID, "votes", o.VoteCount)
		}
		if err := s.store.DeleteOption(ctx, o.ID); err != nil {
			return fmt.Errorf("delete option: %w", err)
		}
	}

	for i := range inserts {
		if err := s.store.InsertOption(ctx, &inserts[i]); err != nil {
			return fmt.Errorf("insert option: %w", err)
		}
	}

	for _, u := range updates {
		if err := s.store.UpdateOption(ctx, u.id, u.text, u.order); err != nil {
			return fmt.Errorf("update option: %w", err)
		}
	}

	slog.Info("poll updated", "poll_id", pollID,
		"inserted", len(inserts), "updated", len(updates), "deleted", len(current)-len(keep))
	return nil
}

// Delete removes a poll; the store cascades its options and votes.
// Only the creator may delete.
func (s *Service) Delete(ctx context.Context, callerID, pollID string) error {
	if callerID == "" {
		return ErrUnauthenticated
	}

	existing, err := s.store.GetPoll(ctx, pollID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("load poll: %w", err)
	}
	if existing.CreatorID != callerID {
		return ErrUnauthorized
	}

	if err := s.store.DeletePoll(ctx, pollID); err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	slog.Info("poll deleted", "poll_id", pollID, "creator_id", callerID)
	return nil
}

// Detail is a poll assembled with its ordered options for display.
type Detail struct {
	Poll    store.Poll
	Options []store.Option
}

// Get assembles a poll with its options and counts.
func (s *Service) Get(ctx context.Context, pollID string) (*Detail, error) {
	poll, err := s.store.GetPoll(ctx, pollID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load poll: %w", err)
	}
	options, err := s.store.ListOptions(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	return &Detail{Poll: *poll, Options: options}, nil
}

// ListByCreator returns the caller's polls, newest first. page is 1-based.
func (s *Service) ListByCreator(ctx context.Context, creatorID string, page int) ([]store.Poll, error) {
	if creatorID == "" {
		return nil, ErrUnauthenticated
	}
	if page < 1 {
		page = 1
	}
	return s.store.ListPollsByCreator(ctx, creatorID, PageSize, (page-1)*PageSize)
}

// ListPublic returns public active polls, newest first. page is 1-based.
func (s *Service) ListPublic(ctx context.Context, page int) ([]store.Poll, error) {
	if page < 1 {
		page = 1
	}
	return s.store.ListPublicPolls(ctx, PageSize, (page-1)*PageSize)
}
