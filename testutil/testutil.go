// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/pollstand/auth"
	"github.com/danielhkuo/pollstand/cliparse"
	"github.com/danielhkuo/pollstand/db"
	"github.com/danielhkuo/pollstand/store"
)

// SetupTestDB creates a fresh sqlite database with the full schema in a
// per-test temp directory, so the suite needs no external services.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = "file:" + filepath.Join(t.TempDir(), "pollstand_test.db")

	conn, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3414,
		DatabaseURL:   "file:pollstand_test.db",
		DatabaseType:  "sqlite",
		UserTokenSalt: "test-user-salt",
	}
}

// UserToken mints a valid signed token for the given user id.
func UserToken(cfg cliparse.Config, userID string) string {
	return auth.GenerateUserToken(userID, cfg.UserTokenSalt)
}

// CreateTestPoll inserts a poll with options directly through the store
// and returns the poll id plus option ids in order.
func CreateTestPoll(t *testing.T, s store.Store, creatorID string, active bool, optionTexts ...string) (string, []string) {
	t.Helper()

	now := time.Now().UTC()
	poll := &store.Poll{
		ID:        auth.NewID(),
		Title:     "Test Poll",
		IsActive:  active,
		IsPublic:  true,
		CreatorID: creatorID,
		CreatedAt: now,
	}
	if err := s.InsertPoll(context.Background(), poll); err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	optionIDs := make([]string, 0, len(optionTexts))
	for i, text := range optionTexts {
		opt := &store.Option{
			ID:        auth.NewID(),
			PollID:    poll.ID,
			Text:      text,
			Order:     i,
			CreatedAt: now,
		}
		if err := s.InsertOption(context.Background(), opt); err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, opt.ID)
	}

	return poll.ID, optionIDs
}

// CastTestVote records a vote and both counter increments directly
// through the store, bypassing the engine.
func CastTestVote(t *testing.T, s store.Store, pollID, optionID, voterKey string) {
	t.Helper()

	vote := &store.Vote{
		ID:               auth.NewID(),
		PollID:           pollID,
		PollOptionID:     optionID,
		VoterFingerprint: voterKey,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.InsertVote(context.Background(), vote); err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	if err := s.IncrementOptionVoteCount(context.Background(), optionID, 1); err != nil {
		t.Fatalf("Failed to increment option count: %v", err)
	}
	if err := s.IncrementPollVoteCount(context.Background(), pollID, 1); err != nil {
		t.Fatalf("Failed to increment poll count: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
