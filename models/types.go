// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll status constants
const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusEnded  = "ended"
)

// Connection role constants
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// DefaultTimeLimit is the poll time limit in seconds when none is supplied.
const DefaultTimeLimit = 60

// Request types

type CreatePollRequest struct {
	Question  string       `json:"question"`
	Options   []OptionSpec `json:"options"`
	TimeLimit int          `json:"time_limit"`
}

type OptionSpec struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Response types

type ActivePollResponse struct {
	Poll             *Poll `json:"poll"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

type PollHistoryResponse struct {
	Polls []Poll `json:"polls"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Poll struct {
	ID         string     `json:"id"`
	Question   string     `json:"question"`
	Options    []Option   `json:"options"`
	TimeLimit  int        `json:"time_limit"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
	Status     string     `json:"status"`
	TotalVotes int        `json:"total_votes"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Active reports whether the poll is currently accepting votes.
func (p *Poll) Active() bool {
	return p.Status == StatusActive
}

type Option struct {
	ID      string `json:"id"`
	PollID  string `json:"poll_id"`
	Text    string `json:"text"`
	Votes   int    `json:"votes"`
	Correct bool   `json:"correct"`
}

type Vote struct {
	PollID      string    `json:"poll_id"`
	StudentName string    `json:"student_name"`
	OptionID    string    `json:"option_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	SenderName string    `json:"sender_name"`
	SenderRole string    `json:"sender_role"`
	Timestamp  time.Time `json:"timestamp"`
}

// RosterEntry is one connected student as reported to clients.
type RosterEntry struct {
	Handle   string    `json:"handle"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}
