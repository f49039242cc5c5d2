// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/live-poll/models"
)

// chatCapacity is the fixed size of the chat buffer. The oldest message is
// evicted once the buffer is full.
const chatCapacity = 100

// ChatRelay holds the in-memory chat history. Messages never outlive the
// process and are independent of poll state.
type ChatRelay struct {
	messages []models.ChatMessage
	now      func() time.Time
}

func NewChatRelay() *ChatRelay {
	return &ChatRelay{now: time.Now}
}

// Append adds a timestamped message, evicting the oldest entry past capacity.
func (c *ChatRelay) Append(text, senderName, senderRole string) models.ChatMessage {
	msg := models.ChatMessage{
		ID:         uuid.NewString(),
		Text:       text,
		SenderName: senderName,
		SenderRole: senderRole,
		Timestamp:  c.now(),
	}
	c.messages = append(c.messages, msg)
	if len(c.messages) > chatCapacity {
		c.messages = c.messages[1:]
	}
	return msg
}

// History returns the buffered messages, oldest first.
func (c *ChatRelay) History() []models.ChatMessage {
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}
