package models

import "time"

// Request types

type OptionSpecRequest struct {
	// ID is set when editing an existing option; empty for new options.
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

type PollSpecRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	IsActive    bool                `json:"is_active"`
	IsPublic    bool                `json:"is_public"`
	ExpiresAt   string              `json:"expires_at,omitempty"` // RFC 3339
	Options     []OptionSpecRequest `json:"options"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
	// Fingerprint identifies an anonymous voter across requests; ignored
	// when the caller presents a user token.
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Response types

type CreatePollResponse struct {
	Success bool   `json:"success"`
	PollID  string `json:"poll_id"`
}

type UpdatePollResponse struct {
	Success bool   `json:"success"`
	PollID  string `json:"poll_id"`
}

type DeletePollResponse struct {
	Success bool `json:"success"`
}

type CastVoteResponse struct {
	Success bool `json:"success"`
}

type OptionResult struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Order     int     `json:"order"`
	VoteCount int     `json:"vote_count"`
	Percent   float64 `json:"percent"`
}

type PollResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	IsActive    bool           `json:"is_active"`
	IsPublic    bool           `json:"is_public"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	CreatorID   string         `json:"creator_id"`
	VoteCount   int            `json:"vote_count"`
	CreatedAt   time.Time      `json:"created_at"`
	Options     []OptionResult `json:"options"`
}

type PollSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	IsActive   bool      `json:"is_active"`
	IsPublic   bool      `json:"is_public"`
	VoteCount  int       `json:"vote_count"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedAgo string    `json:"created_ago"`
}

type ListPollsResponse struct {
	Success bool          `json:"success"`
	Page    int           `json:"page"`
	Polls   []PollSummary `json:"polls"`
}

// Error response

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
