// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/live-poll/models"
)

// Store is the persistence collaborator consumed by the session core.
// Implementations must enforce a durable uniqueness constraint on
// (poll id, student name) for votes.
type Store interface {
	CreatePoll(ctx context.Context, poll models.Poll) error
	FindPoll(ctx context.Context, id string) (models.Poll, error)
	UpdatePoll(ctx context.Context, poll models.Poll) error
	ActivePoll(ctx context.Context) (models.Poll, bool, error)
	PollHistory(ctx context.Context) ([]models.Poll, error)
	InsertVote(ctx context.Context, vote models.Vote) error
	HasVote(ctx context.Context, pollID, studentName string) (bool, error)
}

// Lifecycle owns poll state transitions: draft → active → ended. It enforces
// the single-active-poll invariant by force-ending whatever poll is active
// when a new one starts, and it schedules the autonomous expiry that ends an
// active poll when its time limit runs out.
type Lifecycle struct {
	store    Store
	onExpire func(pollID string)
	now      func() time.Time
	schedule func(d time.Duration, fn func())
}

// NewLifecycle creates a lifecycle machine. onExpire is invoked from a timer
// goroutine when a started poll's time limit elapses; the caller routes it
// back into its event loop.
func NewLifecycle(store Store, onExpire func(pollID string)) *Lifecycle {
	return &Lifecycle{
		store:    store,
		onExpire: onExpire,
		now:      time.Now,
		schedule: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// Create validates and persists a draft poll. The time limit defaults to
// models.DefaultTimeLimit when not supplied.
func (l *Lifecycle) Create(ctx context.Context, question string, options []models.OptionSpec, timeLimit int) (models.Poll, error) {
	if strings.TrimSpace(question) == "" {
		return models.Poll{}, fmt.Errorf("%w: question is required", models.ErrValidation)
	}
	if len(options) < 2 {
		return models.Poll{}, fmt.Errorf("%w: at least 2 options are required", models.ErrValidation)
	}
	if timeLimit <= 0 {
		timeLimit = models.DefaultTimeLimit
	}

	poll := models.Poll{
		ID:        uuid.NewString(),
		Question:  question,
		TimeLimit: timeLimit,
		Status:    models.StatusDraft,
		CreatedAt: l.now(),
	}
	for _, spec := range options {
		if strings.TrimSpace(spec.Text) == "" {
			return models.Poll{}, fmt.Errorf("%w: option text is required", models.ErrValidation)
		}
		poll.Options = append(poll.Options, models.Option{
			ID:      uuid.NewString(),
			PollID:  poll.ID,
			Text:    spec.Text,
			Correct: spec.Correct,
		})
	}

	if err := l.store.CreatePoll(ctx, poll); err != nil {
		return models.Poll{}, fmt.Errorf("create poll: %w", err)
	}
	return poll, nil
}

// Start transitions a draft poll to active. Any other currently active poll
// is ended first, so at most one poll is ever active; the force-ended poll is
// returned so callers can announce it. The expiry task is scheduled here and
// is never cancelled; a fire on an already-ended poll is a no-op in End.
func (l *Lifecycle) Start(ctx context.Context, id string) (models.Poll, *models.Poll, error) {
	var endedPrev *models.Poll
	if current, ok, err := l.store.ActivePoll(ctx); err != nil {
		return models.Poll{}, nil, fmt.Errorf("query active poll: %w", err)
	} else if ok && current.ID != id {
		ended, changed, err := l.End(ctx, current.ID)
		if err != nil {
			return models.Poll{}, nil, err
		}
		if changed {
			endedPrev = &ended
		}
	}

	poll, err := l.store.FindPoll(ctx, id)
	if err != nil {
		return models.Poll{}, nil, err
	}
	if poll.Status != models.StatusDraft {
		return models.Poll{}, nil, fmt.Errorf("%w: poll already started", models.ErrValidation)
	}

	now := l.now()
	ends := now.Add(time.Duration(poll.TimeLimit) * time.Second)
	poll.StartedAt = &now
	poll.EndsAt = &ends
	poll.Status = models.StatusActive

	if err := l.store.UpdatePoll(ctx, poll); err != nil {
		return models.Poll{}, nil, fmt.Errorf("start poll: %w", err)
	}

	pollID := poll.ID
	l.schedule(time.Duration(poll.TimeLimit)*time.Second, func() {
		l.onExpire(pollID)
	})

	return poll, endedPrev, nil
}

// End transitions an active poll to ended. Ending a poll that is not active
// is a no-op that returns the record unchanged; the bool reports whether a
// transition actually happened. The deadline set at start is never rewritten.
func (l *Lifecycle) End(ctx context.Context, id string) (models.Poll, bool, error) {
	poll, err := l.store.FindPoll(ctx, id)
	if err != nil {
		return models.Poll{}, false, err
	}
	if poll.Status != models.StatusActive {
		return poll, false, nil
	}

	poll.Status = models.StatusEnded
	if err := l.store.UpdatePoll(ctx, poll); err != nil {
		return models.Poll{}, false, fmt.Errorf("end poll: %w", err)
	}
	return poll, true, nil
}

// ActivePoll returns the single poll currently accepting votes, if any.
func (l *Lifecycle) ActivePoll(ctx context.Context) (models.Poll, bool, error) {
	return l.store.ActivePoll(ctx)
}

// RemainingSeconds reports how many whole seconds the poll has left,
// clamped at zero. A nil or never-started poll has no time remaining.
func (l *Lifecycle) RemainingSeconds(poll *models.Poll) int {
	if poll == nil || poll.StartedAt == nil {
		return 0
	}
	elapsed := int(l.now().Sub(*poll.StartedAt) / time.Second)
	remaining := poll.TimeLimit - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
