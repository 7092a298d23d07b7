// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/pollstand/auth"
	"github.com/danielhkuo/pollstand/cliparse"
	"github.com/danielhkuo/pollstand/middleware"
	"github.com/danielhkuo/pollstand/models"
	"github.com/danielhkuo/pollstand/polls"
)

type PollHandler struct {
	service *polls.Service
	cfg     cliparse.Config
}

func NewPollHandler(service *polls.Service, cfg cliparse.Config) *PollHandler {
	return &PollHandler{service: service, cfg: cfg}
}

// currentUser resolves the caller's identity. ok=false means an invalid
// token was presented and a 401 has already been written; an absent
// token yields ("", true) for anonymous callers.
func currentUser(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) (string, bool) {
	userID, err := auth.CurrentUserID(r, cfg.UserTokenSalt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid user token")
		return "", false
	}
	return userID, true
}

// specFromRequest converts the wire spec into the service spec,
// parsing the optional expiry timestamp.
func specFromRequest(req models.PollSpecRequest) (polls.Spec, error) {
	spec := polls.Spec{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
		IsPublic:    req.IsPublic,
	}
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return polls.Spec{}, fmt.Errorf("expires_at must be an RFC 3339 timestamp")
		}
		t = t.UTC()
		spec.ExpiresAt = &t
	}
	for _, o := range req.Options {
		spec.Options = append(spec.Options, polls.OptionSpec{ID: o.ID, Text: o.Text})
	}
	return spec, nil
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.PollSpecRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	spec, err := specFromRequest(req)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	pollID, err := h.service.Create(r.Context(), userID, spec)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		Success: true,
		PollID:  pollID,
	})
}

// UpdatePoll handles PUT /polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	userID, ok := currentUser(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.PollSpecRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	spec, err := specFromRequest(req)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Update(r.Context(), userID, pollID, spec); err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UpdatePollResponse{
		Success: true,
		PollID:  pollID,
	})
}

// DeletePoll handles DELETE /polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	userID, ok := currentUser(w, r, h.cfg)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, pollID); err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeletePollResponse{Success: true})
}

// ListMyPolls handles GET /polls
// Returns the authenticated caller's polls, newest first.
func (h *PollHandler) ListMyPolls(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r, h.cfg)
	if !ok {
		return
	}

	page := parsePage(r)
	list, err := h.service.ListByCreator(r.Context(), userID, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	slog.Info("polls listed", "creator_id", userID, "page", page, "count", len(list))
	middleware.JSONResponse(w, http.StatusOK, listResponse(page, list))
}
