// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/live-poll/middleware"
	"github.com/danielhkuo/live-poll/models"
	"github.com/danielhkuo/live-poll/session"
)

type PollHandler struct {
	lifecycle *session.Lifecycle
	store     session.Store
}

func NewPollHandler(lifecycle *session.Lifecycle, store session.Store) *PollHandler {
	return &PollHandler{lifecycle: lifecycle, store: store}
}

// CreatePoll handles POST /polls. The poll is created in draft state; it is
// started over the event channel.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.lifecycle.Create(r.Context(), req.Question, req.Options, req.TimeLimit)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID)

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// GetActivePoll handles GET /polls/active
func (h *PollHandler) GetActivePoll(w http.ResponseWriter, r *http.Request) {
	poll, ok, err := h.lifecycle.ActivePoll(r.Context())
	if err != nil {
		slog.Error("failed to query active poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.ActivePollResponse{}
	if ok {
		resp.Poll = &poll
		resp.RemainingSeconds = h.lifecycle.RemainingSeconds(&poll)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetHistory handles GET /polls/history
// Returns all non-active polls, newest first.
func (h *PollHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	polls, err := h.store.PollHistory(r.Context())
	if err != nil {
		slog.Error("failed to query poll history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollHistoryResponse{Polls: polls})
}
