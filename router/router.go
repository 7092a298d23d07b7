// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/pollstand/cliparse"
	"github.com/danielhkuo/pollstand/handlers"
	"github.com/danielhkuo/pollstand/middleware"
	"github.com/danielhkuo/pollstand/polls"
	"github.com/danielhkuo/pollstand/store"
	"github.com/danielhkuo/pollstand/voting"
)

func NewRouter(db *sqlx.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Wire services over the SQL store
	st := store.NewSQL(db)
	pollService := polls.NewService(st)
	engine := voting.NewEngine(st, func(pollID string) {
		// downstream caches re-fetch on their own; just surface the signal
		slog.Debug("poll results invalidated", "poll_id", pollID)
	})

	pollHandler := handlers.NewPollHandler(pollService, cfg)
	votingHandler := handlers.NewVotingHandler(engine, cfg)
	resultsHandler := handlers.NewResultsHandler(pollService, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll management (creator operations)
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListMyPolls))
	mux.HandleFunc("PUT /polls/{id}", middleware.WithLogging(pollHandler.UpdatePoll))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))

	// Voting (public)
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(votingHandler.CastVote))

	// Results retrieval (public)
	mux.HandleFunc("GET /polls/public", middleware.WithLogging(resultsHandler.ListPublicPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(resultsHandler.GetPoll))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollstand API v1"))
	})

	return mux
}
