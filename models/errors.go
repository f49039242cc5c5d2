// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// Business-rule errors. Handlers map these to structured rejections sent back
// to the originating connection; they never abort the coordinator.
var (
	ErrValidation    = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrPollNotActive = errors.New("poll is not active")
	ErrPollExpired   = errors.New("poll time is up")
	ErrDuplicateVote = errors.New("already voted")
	ErrUnknownOption = errors.New("unknown option")
)
