// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/live-poll/models"
)

// Ledger enforces one vote per student per poll and keeps the aggregate
// counts on the poll record consistent with the recorded votes.
type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Submit records a vote. Checks run in a fixed order against freshly read
// state: duplicate, poll active, deadline, option membership. The in-memory
// duplicate pre-check is an optimization only; the store's unique constraint
// on (poll id, student name) is the final arbiter under concurrency.
func (g *Ledger) Submit(ctx context.Context, pollID, identity, optionID string) (models.Poll, error) {
	voted, err := g.store.HasVote(ctx, pollID, identity)
	if err != nil {
		return models.Poll{}, fmt.Errorf("check existing vote: %w", err)
	}
	if voted {
		return models.Poll{}, models.ErrDuplicateVote
	}

	poll, err := g.store.FindPoll(ctx, pollID)
	if err == models.ErrNotFound {
		return models.Poll{}, models.ErrPollNotActive
	}
	if err != nil {
		return models.Poll{}, err
	}
	if !poll.Active() {
		return models.Poll{}, models.ErrPollNotActive
	}

	// The deadline check is independent of the active flag: the expiry task
	// may not have fired yet, and a vote in that window must still be
	// rejected.
	if poll.EndsAt != nil && g.now().After(*poll.EndsAt) {
		return models.Poll{}, models.ErrPollExpired
	}

	optionIdx := -1
	for i, opt := range poll.Options {
		if opt.ID == optionID {
			optionIdx = i
			break
		}
	}
	if optionIdx == -1 {
		return models.Poll{}, models.ErrUnknownOption
	}

	err = g.store.InsertVote(ctx, models.Vote{
		PollID:      pollID,
		StudentName: identity,
		OptionID:    optionID,
		CreatedAt:   g.now(),
	})
	if err != nil {
		if err == models.ErrDuplicateVote {
			return models.Poll{}, err
		}
		return models.Poll{}, fmt.Errorf("record vote: %w", err)
	}

	poll.Options[optionIdx].Votes++
	poll.TotalVotes++

	if err := g.store.UpdatePoll(ctx, poll); err != nil {
		return models.Poll{}, fmt.Errorf("update counts: %w", err)
	}
	return poll, nil
}
