// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/live-poll/models"
	"github.com/danielhkuo/live-poll/testutil"
)

func TestCreateAndFindPoll(t *testing.T) {
	dbConn := testutil.SetupTestDB(t)
	st := New(dbConn)
	ctx := testutil.Ctx(t)

	poll := models.Poll{
		ID:        uuid.NewString(),
		Question:  "Favorite language?",
		TimeLimit: 45,
		Status:    models.StatusDraft,
		CreatedAt: time.Now(),
		Options: []models.Option{
			{ID: uuid.NewString(), Text: "Go"},
			{ID: uuid.NewString(), Text: "Rust"},
			{ID: uuid.NewString(), Text: "Python"},
		},
	}
	for i := range poll.Options {
		poll.Options[i].PollID = poll.ID
	}

	if err := st.CreatePoll(ctx, poll); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := st.FindPoll(ctx, poll.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.Question != poll.Question || got.TimeLimit != 45 || got.Status != models.StatusDraft {
		t.Errorf("poll fields mismatch: %+v", got)
	}
	if len(got.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(got.Options))
	}
	// Insertion order is display order.
	for i, want := range []string{"Go", "Rust", "Python"} {
		if got.Options[i].Text != want {
			t.Errorf("option %d: expected %q, got %q", i, want, got.Options[i].Text)
		}
	}
}

func TestFindPollNotFound(t *testing.T) {
	dbConn := testutil.SetupTestDB(t)
	st := New(dbConn)

	_, err := st.FindPoll(testutil.Ctx(t), "missing")
	if err != models.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestActivePollQuery(t *testing.T) {
	dbConn := testutil.SetupTestDB(t)
	st := New(dbConn)
	ctx := testutil.Ctx(t)

	if _, ok, err := st.ActivePoll(ctx); err != nil || ok {
		t.Fatalf("empty db: expected no active poll, got ok=%v err=%v", ok, err)
	}

	testutil.CreateTestPoll(t, dbConn, models.StatusEnded, 30)
	active := testutil.CreateTestPoll(t, dbConn, models.StatusActive, 30)

	got, ok, err := st.ActivePoll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || got.ID != active.ID {
		t.Errorf("expected active poll %s, got ok=%v id=%s", active.ID, ok, got.ID)
	}
	if got.StartedAt == nil || got.EndsAt == nil {
		t.Error("active poll should have started_at and ends_at set")
	}
}

func TestUpdatePollPersistsCounts(t *testing.T) {
	dbConn := testutil.SetupTestDB(t)
	st := New(dbConn)
	ctx := testutil.Ctx(t)

	poll := testutil.CreateTestPoll(t, dbConn, models.StatusActive, 30)
	poll.Options[0].Votes = 3
	poll.Options[1].Votes = 1
	poll.TotalVotes = 4
	poll.Status = models.StatusEnded

	if err := st.UpdatePoll(ctx, poll); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := st.FindPoll(ctx, poll.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusEnded || got.TotalVotes != 4 {
		t.Errorf("poll not updated: %+v", got)
	}
	if got.Options[0].Votes != 3 || got.Options[1].Votes != 1 {
		t.Errorf("option counts not updated: %+v", got.Options)
	}

	err = st.UpdatePoll(ctx, models.Poll{ID: "missing"})
	if err != models.ErrNotFound {
		t.Errorf("updating a missing poll: expected ErrNotFound, got %v", err)
	}
}

func TestInsertVoteUniqueConstraint(t *testing.T) {
	dbConn := testutil.SetupTestDB(t)
	st := New(dbConn)
	ctx := testutil.Ctx(t)

	poll := testutil.CreateTestPoll(t, dbConn, models.StatusActive, 30)

	vote := models.Vote{
		PollID:      poll.ID,
		StudentName: "Alice",
		OptionID:    poll.Options[0].ID,
		CreatedAt:   time.Now(),
	}
	if err := st.InsertVote(ctx, vote); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	// Same student, same poll, different option: the compound key rejects it.
	vote.OptionID = poll.Options[1].ID
	if err := st.InsertVote(ctx, vote); err != models.ErrDuplicateVote {
		t.Errorf("expected ErrDuplicateVote, got %v", err)
	}

	voted, err := st.HasVote(ctx, poll.ID, "Alice")
	if err != nil || !voted {
		t.Errorf("HasVote: expected true, got %v err=%v", voted, err)
	}
	voted, err = st.HasVote(ctx, poll.ID, "Bob")
	if err != nil || voted {
		t.Errorf("HasVote for non-voter: expected false, got %v err=%v", voted, err)
	}

	// A different student may still vote.
	other := models.Vote{PollID: poll.ID, StudentName: "Bob", OptionID: poll.Options[0].ID, CreatedAt: time.Now()}
	if err := st.InsertVote(ctx, other); err != nil {
		t.Errorf("vote by second student failed: %v", err)
	}
}

func TestPollHistoryExcludesActiveNewestFirst(t *testing.T) {
	dbConn := testutil.SetupTestDB(t)
	st := New(dbConn)
	ctx := testutil.Ctx(t)

	older := testutil.CreateTestPoll(t, dbConn, models.StatusEnded, 30)
	// Force distinct created_at ordering.
	if _, err := dbConn.Exec(`UPDATE poll SET created_at = $1 WHERE id = $2`,
		time.Now().Add(-time.Hour), older.ID); err != nil {
		t.Fatal(err)
	}
	newer := testutil.CreateTestPoll(t, dbConn, models.StatusEnded, 30)
	testutil.CreateTestPoll(t, dbConn, models.StatusActive, 30)

	polls, err := st.PollHistory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(polls) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(polls))
	}
	if polls[0].ID != newer.ID || polls[1].ID != older.ID {
		t.Errorf("history not newest first: %s, %s", polls[0].ID, polls[1].ID)
	}
	if len(polls[0].Options) != 2 {
		t.Errorf("history entries should carry options, got %d", len(polls[0].Options))
	}
}
