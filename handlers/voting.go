// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollstand/cliparse"
	"github.com/danielhkuo/pollstand/middleware"
	"github.com/danielhkuo/pollstand/models"
	"github.com/danielhkuo/pollstand/voting"
)

type VotingHandler struct {
	engine *voting.Engine
	cfg    cliparse.Config
}

func NewVotingHandler(engine *voting.Engine, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{engine: engine, cfg: cfg}
}

// CastVote handles POST /polls/{id}/votes
// Works for both authenticated callers (X-User-Token) and anonymous
// ones, which must send a fingerprint in the body.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	userID, ok := currentUser(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	err := h.engine.CastVote(r.Context(), voting.Request{
		PollID:      pollID,
		OptionID:    req.OptionID,
		UserID:      userID,
		Fingerprint: req.Fingerprint,
		VoterIP:     middleware.GetClientIP(r),
		UserAgent:   r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	slog.Info("vote recorded", "poll_id", pollID, "option_id", req.OptionID, "authenticated", userID != "")
	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{Success: true})
}
