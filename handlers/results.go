// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/pollstand/cliparse"
	"github.com/danielhkuo/pollstand/middleware"
	"github.com/danielhkuo/pollstand/models"
	"github.com/danielhkuo/pollstand/polls"
	"github.com/danielhkuo/pollstand/store"
)

type ResultsHandler struct {
	service *polls.Service
	cfg     cliparse.Config
}

func NewResultsHandler(service *polls.Service, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{service: service, cfg: cfg}
}

// GetPoll handles GET /polls/{id}
// Returns the poll with its options, counts, and percentages.
func (h *ResultsHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	detail, err := h.service.Get(r.Context(), pollID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	p := detail.Poll
	resp := models.PollResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		IsActive:    p.IsActive,
		IsPublic:    p.IsPublic,
		ExpiresAt:   p.ExpiresAt,
		CreatorID:   p.CreatorID,
		VoteCount:   p.VoteCount,
		CreatedAt:   p.CreatedAt,
		Options:     make([]models.OptionResult, 0, len(detail.Options)),
	}

	for _, o := range detail.Options {
		resp.Options = append(resp.Options, models.OptionResult{
			ID:        o.ID,
			Text:      o.Text,
			Order:     o.Order,
			VoteCount: o.VoteCount,
			Percent:   percent(o.VoteCount, p.VoteCount),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// ListPublicPolls handles GET /polls/public
// Returns public active polls, newest first.
func (h *ResultsHandler) ListPublicPolls(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	list, err := h.service.ListPublic(r.Context(), page)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, listResponse(page, list))
}

// percent returns count/total as a percentage with one decimal place.
func percent(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(1000*float64(count)/float64(total)) / 10
}

func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func listResponse(page int, list []store.Poll) models.ListPollsResponse {
	resp := models.ListPollsResponse{
		Success: true,
		Page:    page,
		Polls:   make([]models.PollSummary, 0, len(list)),
	}
	for _, p := range list {
		resp.Polls = append(resp.Polls, models.PollSummary{
			ID:         p.ID,
			Title:      p.Title,
			IsActive:   p.IsActive,
			IsPublic:   p.IsPublic,
			VoteCount:  p.VoteCount,
			CreatedAt:  p.CreatedAt,
			CreatedAgo: humanize.Time(p.CreatedAt),
		})
	}
	return resp
}
