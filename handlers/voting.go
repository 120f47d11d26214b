// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/barto95100/EasyVote/middleware"
	"github.com/barto95100/EasyVote/models"
	"github.com/barto95100/EasyVote/polls"
)

type VotingHandler struct {
	svc *polls.Service
}

func NewVotingHandler(svc *polls.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// SubmitVote handles POST /api/polls/:token/vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	shareToken := r.PathValue("token")
	if shareToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "share token is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "optionId is required")
		return
	}
	if req.Fingerprint == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "fingerprint is required")
		return
	}

	if err := h.svc.SubmitVote(shareToken, req.OptionID, req.Fingerprint); err != nil {
		writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{Success: true})
}
