// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/barto95100/EasyVote/middleware"
	"github.com/barto95100/EasyVote/polls"
)

// writeServiceError maps the core error taxonomy onto HTTP statuses.
// Every rejection carries its specific reason; only unexpected storage
// faults collapse into a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, polls.ErrInvalidInput):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid request data")
	case errors.Is(err, polls.ErrInvalidFingerprint):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid fingerprint")
	case errors.Is(err, polls.ErrPollNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	case errors.Is(err, polls.ErrOptionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Option not found")
	case errors.Is(err, polls.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, "Wrong password")
	case errors.Is(err, polls.ErrPollInactive):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is no longer active")
	case errors.Is(err, polls.ErrAlreadyStopped):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is already stopped")
	case errors.Is(err, polls.ErrDuplicateVote):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted on this poll")
	default:
		slog.Error("storage failure", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
