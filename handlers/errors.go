// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollstand/middleware"
	"github.com/danielhkuo/pollstand/polls"
	"github.com/danielhkuo/pollstand/voting"
)

// writeServiceError maps core errors to HTTP statuses. Messages are
// passed through to the client verbatim; nothing is retried here.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *polls.ValidationError
	var pfe *voting.PartialFailureError

	switch {
	case errors.As(err, &verr):
		middleware.ErrorResponse(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, voting.ErrMissingIdentifier):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, polls.ErrUnauthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, polls.ErrUnauthorized):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, polls.ErrPollNotFound),
		errors.Is(err, voting.ErrPollNotFound),
		errors.Is(err, voting.ErrOptionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, voting.ErrDuplicateVote),
		errors.Is(err, voting.ErrPollInactive):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.As(err, &pfe):
		// the vote landed; the counters are behind the ledger
		slog.Error("partial vote failure", "stage", pfe.Stage, "error", pfe.Err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, pfe.Error())
	default:
		slog.Error("store operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}
