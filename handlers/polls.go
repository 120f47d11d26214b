// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/barto95100/EasyVote/middleware"
	"github.com/barto95100/EasyVote/models"
	"github.com/barto95100/EasyVote/polls"
)

type PollHandler struct {
	svc *polls.Service
}

func NewPollHandler(svc *polls.Service) *PollHandler {
	return &PollHandler{svc: svc}
}

// ListPolls handles GET /api/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, views)
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	view, err := h.svc.Create(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, view)
}

// GetPoll handles GET /api/polls/:token
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	shareToken := r.PathValue("token")
	if shareToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "share token is required")
		return
	}

	view, err := h.svc.Get(shareToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// StopPoll handles POST /api/polls/:token/stop
func (h *PollHandler) StopPoll(w http.ResponseWriter, r *http.Request) {
	shareToken := r.PathValue("token")
	if shareToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "share token is required")
		return
	}

	var req models.ManagePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.DeletePassword == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deletePassword is required")
		return
	}

	if err := h.svc.Stop(shareToken, req.DeletePassword); err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Poll stopped",
	})
}

// DeletePoll handles DELETE /api/polls/:token
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	shareToken := r.PathValue("token")
	if shareToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "share token is required")
		return
	}

	var req models.ManagePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.DeletePassword == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deletePassword is required")
		return
	}

	if err := h.svc.Delete(shareToken, req.DeletePassword); err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Poll deleted",
	})
}
