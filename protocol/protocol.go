// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/danielhkuo/live-poll/models"
)

// Inbound message types
const (
	TypeJoin           = "join"
	TypeCreatePoll     = "create-poll"
	TypeSubmitVote     = "submit-vote"
	TypeKick           = "kick"
	TypeChatSend       = "chat-send"
	TypeRequestRoster  = "request-roster"
	TypeRequestHistory = "request-history"
)

// Outbound message types
const (
	TypeJoinedAck       = "joined-ack"
	TypeActiveSnapshot  = "active-poll-snapshot"
	TypePollStarted     = "poll-started"
	TypePollUpdated     = "poll-updated"
	TypePollEnded       = "poll-ended"
	TypeVoteAccepted    = "vote-accepted"
	TypeVoteRejected    = "vote-rejected"
	TypeRosterUpdate    = "roster-update"
	TypeConnectionCount = "connection-count"
	TypeKickedNotice    = "kicked-notice"
	TypeChatMessage     = "chat-message"
	TypeChatHistory     = "chat-history"
	TypeError           = "error"
)

// envelope is the wire framing shared by all messages.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound is the closed set of messages a client may send. Frames are
// validated here, at the channel boundary, before they reach the coordinator.
type Inbound interface {
	inbound()
}

type Join struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

type CreatePoll struct {
	Question  string              `json:"question"`
	Options   []models.OptionSpec `json:"options"`
	TimeLimit int                 `json:"time_limit"`
}

type SubmitVote struct {
	PollID   string `json:"poll_id"`
	Identity string `json:"identity"`
	OptionID string `json:"option_id"`
}

type Kick struct {
	Handle string `json:"handle"`
}

type ChatSend struct {
	Text string `json:"text"`
}

type RequestRoster struct{}

type RequestHistory struct{}

func (Join) inbound()           {}
func (CreatePoll) inbound()     {}
func (SubmitVote) inbound()     {}
func (Kick) inbound()           {}
func (ChatSend) inbound()       {}
func (RequestRoster) inbound()  {}
func (RequestHistory) inbound() {}

// Parse decodes and validates a single inbound frame.
func Parse(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch env.Type {
	case TypeJoin:
		var msg Join
		if err := unmarshalPayload(env.Payload, &msg); err != nil {
			return nil, err
		}
		if msg.Role != models.RoleTeacher && msg.Role != models.RoleStudent {
			return nil, fmt.Errorf("join: role must be teacher or student")
		}
		return msg, nil

	case TypeCreatePoll:
		var msg CreatePoll
		if err := unmarshalPayload(env.Payload, &msg); err != nil {
			return nil, err
		}
		return msg, nil

	case TypeSubmitVote:
		var msg SubmitVote
		if err := unmarshalPayload(env.Payload, &msg); err != nil {
			return nil, err
		}
		if msg.PollID == "" || msg.Identity == "" || msg.OptionID == "" {
			return nil, fmt.Errorf("submit-vote: poll_id, identity and option_id are required")
		}
		return msg, nil

	case TypeKick:
		var msg Kick
		if err := unmarshalPayload(env.Payload, &msg); err != nil {
			return nil, err
		}
		if msg.Handle == "" {
			return nil, fmt.Errorf("kick: handle is required")
		}
		return msg, nil

	case TypeChatSend:
		var msg ChatSend
		if err := unmarshalPayload(env.Payload, &msg); err != nil {
			return nil, err
		}
		if msg.Text == "" {
			return nil, fmt.Errorf("chat-send: text is required")
		}
		return msg, nil

	case TypeRequestRoster:
		return RequestRoster{}, nil

	case TypeRequestHistory:
		return RequestHistory{}, nil

	default:
		return nil, fmt.Errorf("unknown message type %q", env.Type)
	}
}

func unmarshalPayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return nil
}

// Outbound is a server-to-client frame, ready to be serialized.
type Outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Outbound payload types

type JoinedAckPayload struct {
	Handle string `json:"handle"`
	Role   string `json:"role"`
	Name   string `json:"name,omitempty"`
}

type PollPayload struct {
	Poll models.Poll `json:"poll"`
}

type PollTimedPayload struct {
	Poll             models.Poll `json:"poll"`
	RemainingSeconds int         `json:"remaining_seconds"`
}

type VoteRejectedPayload struct {
	Reason string `json:"reason"`
}

type RosterPayload struct {
	Students []models.RosterEntry `json:"students"`
}

type CountPayload struct {
	Total    int `json:"total"`
	Students int `json:"students"`
}

type ChatHistoryPayload struct {
	Messages []models.ChatMessage `json:"messages"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

// Outbound constructors

func JoinedAck(handle, role, name string) Outbound {
	return Outbound{Type: TypeJoinedAck, Payload: JoinedAckPayload{Handle: handle, Role: role, Name: name}}
}

func ActiveSnapshot(poll models.Poll, remaining int) Outbound {
	return Outbound{Type: TypeActiveSnapshot, Payload: PollTimedPayload{Poll: poll, RemainingSeconds: remaining}}
}

func PollStarted(poll models.Poll, remaining int) Outbound {
	return Outbound{Type: TypePollStarted, Payload: PollTimedPayload{Poll: poll, RemainingSeconds: remaining}}
}

func PollUpdated(poll models.Poll) Outbound {
	return Outbound{Type: TypePollUpdated, Payload: PollPayload{Poll: poll}}
}

func PollEnded(poll models.Poll) Outbound {
	return Outbound{Type: TypePollEnded, Payload: PollPayload{Poll: poll}}
}

func VoteAccepted(poll models.Poll) Outbound {
	return Outbound{Type: TypeVoteAccepted, Payload: PollPayload{Poll: poll}}
}

func VoteRejected(reason string) Outbound {
	return Outbound{Type: TypeVoteRejected, Payload: VoteRejectedPayload{Reason: reason}}
}

func RosterUpdate(students []models.RosterEntry) Outbound {
	return Outbound{Type: TypeRosterUpdate, Payload: RosterPayload{Students: students}}
}

func ConnectionCount(total, students int) Outbound {
	return Outbound{Type: TypeConnectionCount, Payload: CountPayload{Total: total, Students: students}}
}

func KickedNotice() Outbound {
	return Outbound{Type: TypeKickedNotice}
}

func ChatBroadcast(msg models.ChatMessage) Outbound {
	return Outbound{Type: TypeChatMessage, Payload: msg}
}

func ChatHistory(messages []models.ChatMessage) Outbound {
	return Outbound{Type: TypeChatHistory, Payload: ChatHistoryPayload{Messages: messages}}
}

func Error(reason string) Outbound {
	return Outbound{Type: TypeError, Payload: ErrorPayload{Reason: reason}}
}
