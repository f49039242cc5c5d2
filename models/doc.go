// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, and response types.

# Domain Types

  - Poll: question, options, lifecycle state, deadline, vote totals
  - Option: one answer choice with its running count
  - Vote: a single recorded (poll, student) ballot
  - ChatMessage: one relayed chat entry
  - RosterEntry: a connected student as shown to the teacher

# Request and Response Types

  - CreatePollRequest / OptionSpec: incoming poll definitions
  - ActivePollResponse: active poll plus remaining seconds
  - PollHistoryResponse: finished polls, newest first
  - ErrorResponse: error, message

# Constants

Poll status values:

	StatusDraft  = "draft"
	StatusActive = "active"
	StatusEnded  = "ended"

Participant roles:

	RoleTeacher = "teacher"
	RoleStudent = "student"

# Errors

Sentinel errors shared across packages (ErrValidation, ErrNotFound,
ErrPollNotActive, ErrPollExpired, ErrDuplicateVote, ErrUnknownOption)
live in errors.go so the store and session packages agree on failure
classification.
*/
package models
