// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/danielhkuo/live-poll/models"
)

// Store persists polls and votes through database/sql. It works against both
// PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite); the schema in the db
// package is restricted to the shared dialect.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreatePoll inserts a poll and its options in one transaction.
func (s *Store) CreatePoll(ctx context.Context, poll models.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create poll: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, question, time_limit, status, total_votes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, poll.ID, poll.Question, poll.TimeLimit, poll.Status, poll.TotalVotes, poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert poll: %w", err)
	}

	for i, opt := range poll.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO option (id, poll_id, position, text, votes, correct)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, opt.ID, poll.ID, i, opt.Text, opt.Votes, opt.Correct)
		if err != nil {
			return fmt.Errorf("insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create poll: %w", err)
	}
	return nil
}

// FindPoll returns a poll with its options, or models.ErrNotFound.
func (s *Store) FindPoll(ctx context.Context, id string) (models.Poll, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, time_limit, started_at, ends_at, status, total_votes, created_at
		FROM poll
		WHERE id = $1
	`, id)
	return s.scanPoll(ctx, row)
}

// ActivePoll returns the poll currently flagged active, if any.
func (s *Store) ActivePoll(ctx context.Context) (models.Poll, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, time_limit, started_at, ends_at, status, total_votes, created_at
		FROM poll
		WHERE status = $1
		ORDER BY started_at DESC
		LIMIT 1
	`, models.StatusActive)

	poll, err := s.scanPoll(ctx, row)
	if err == models.ErrNotFound {
		return models.Poll{}, false, nil
	}
	if err != nil {
		return models.Poll{}, false, err
	}
	return poll, true, nil
}

// PollHistory returns all non-active polls, newest first.
func (s *Store) PollHistory(ctx context.Context) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, time_limit, started_at, ends_at, status, total_votes, created_at
		FROM poll
		WHERE status != $1
		ORDER BY created_at DESC
	`, models.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		poll, err := scanPollRow(rows)
		if err != nil {
			return nil, err
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	for i := range polls {
		opts, err := s.loadOptions(ctx, polls[i].ID)
		if err != nil {
			return nil, err
		}
		polls[i].Options = opts
	}
	return polls, nil
}

// UpdatePoll writes the poll's lifecycle fields and vote counts.
func (s *Store) UpdatePoll(ctx context.Context, poll models.Poll) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update poll: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE poll
		SET status = $1, started_at = $2, ends_at = $3, total_votes = $4
		WHERE id = $5
	`, poll.Status, poll.StartedAt, poll.EndsAt, poll.TotalVotes, poll.ID)
	if err != nil {
		return fmt.Errorf("update poll: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNotFound
	}

	for _, opt := range poll.Options {
		_, err = tx.ExecContext(ctx, `
			UPDATE option SET votes = $1 WHERE id = $2
		`, opt.Votes, opt.ID)
		if err != nil {
			return fmt.Errorf("update option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update poll: %w", err)
	}
	return nil
}

// InsertVote records a vote. The (poll_id, student_name) primary key is the
// durable backstop for vote uniqueness; a constraint violation surfaces as
// models.ErrDuplicateVote.
func (s *Store) InsertVote(ctx context.Context, vote models.Vote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vote (poll_id, student_name, option_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, vote.PollID, vote.StudentName, vote.OptionID, vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateVote
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

// HasVote reports whether a vote exists for (pollID, studentName).
func (s *Store) HasVote(ctx context.Context, pollID, studentName string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM vote WHERE poll_id = $1 AND student_name = $2
		)
	`, pollID, studentName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query vote: %w", err)
	}
	return exists, nil
}

// isUniqueViolation matches the constraint error text of both supported
// drivers.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanPoll(ctx context.Context, row rowScanner) (models.Poll, error) {
	poll, err := scanPollRow(row)
	if err != nil {
		return models.Poll{}, err
	}

	opts, err := s.loadOptions(ctx, poll.ID)
	if err != nil {
		return models.Poll{}, err
	}
	poll.Options = opts
	return poll, nil
}

func scanPollRow(row rowScanner) (models.Poll, error) {
	var poll models.Poll
	var startedAt, endsAt sql.NullTime

	err := row.Scan(
		&poll.ID, &poll.Question, &poll.TimeLimit,
		&startedAt, &endsAt, &poll.Status, &poll.TotalVotes, &poll.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Poll{}, models.ErrNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("scan poll: %w", err)
	}

	if startedAt.Valid {
		t := startedAt.Time
		poll.StartedAt = &t
	}
	if endsAt.Valid {
		t := endsAt.Time
		poll.EndsAt = &t
	}
	return poll, nil
}

func (s *Store) loadOptions(ctx context.Context, pollID string) ([]models.Option, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, text, votes, correct
		FROM option
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Votes, &opt.Correct); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}
	return options, nil
}
