// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/live-poll/models"
	"github.com/danielhkuo/live-poll/protocol"
)

// defaultKickGrace is the pause between the kicked-notice and the forced
// disconnect, long enough for the notice frame to reach the client.
const defaultKickGrace = 100 * time.Millisecond

// Event is the closed set of inputs the coordinator processes. Everything
// that mutates session state arrives here: client messages, disconnects and
// fired timers alike.
type Event interface {
	isEvent()
}

// MessageEvent is a validated inbound message from one connection.
type MessageEvent struct {
	Conn Conn
	Msg  protocol.Inbound
}

// DisconnectEvent reports that a connection's transport has gone away.
type DisconnectEvent struct {
	Handle string
}

// pollExpiredEvent fires when a started poll's time limit elapses.
type pollExpiredEvent struct {
	pollID string
}

// kickDeadlineEvent fires when a kicked student's grace delay elapses.
type kickDeadlineEvent struct {
	handle string
}

func (MessageEvent) isEvent()      {}
func (DisconnectEvent) isEvent()   {}
func (pollExpiredEvent) isEvent()  {}
func (kickDeadlineEvent) isEvent() {}

// Coordinator processes all session events on a single goroutine, invoking
// the lifecycle, ledger, registry and chat relay in order and fanning the
// resulting notifications out. One event runs to completion before the next
// begins, so all in-memory state is confined to the loop.
type Coordinator struct {
	lifecycle *Lifecycle
	ledger    *Ledger
	registry  *Registry
	chat      *ChatRelay
	broadcast *Broadcaster

	events    chan Event
	kickGrace time.Duration
	schedule  func(d time.Duration, fn func())
}

func NewCoordinator(store Store) *Coordinator {
	c := &Coordinator{
		ledger:    NewLedger(store),
		registry:  NewRegistry(),
		chat:      NewChatRelay(),
		events:    make(chan Event, 256),
		kickGrace: defaultKickGrace,
		schedule:  func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
	c.broadcast = NewBroadcaster(c.registry)
	c.lifecycle = NewLifecycle(store, func(pollID string) {
		c.Post(pollExpiredEvent{pollID: pollID})
	})
	return c
}

// Lifecycle exposes the poll state machine for the HTTP read/create
// endpoints, which delegate to the same operations the channel uses.
func (c *Coordinator) Lifecycle() *Lifecycle {
	return c.lifecycle
}

// Post enqueues an event for processing.
func (c *Coordinator) Post(ev Event) {
	c.events <- ev
}

// Run processes events until the context is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.events:
			c.dispatch(ctx, ev)
		}
	}
}

func (c *Coordinator) dispatch(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case MessageEvent:
		c.dispatchMessage(ctx, ev.Conn, ev.Msg)
	case DisconnectEvent:
		c.handleDisconnect(ev.Handle)
	case pollExpiredEvent:
		c.handlePollExpired(ctx, ev.pollID)
	case kickDeadlineEvent:
		c.completeKick(ev.handle)
	}
}

func (c *Coordinator) dispatchMessage(ctx context.Context, conn Conn, msg protocol.Inbound) {
	switch msg := msg.(type) {
	case protocol.Join:
		c.handleJoin(ctx, conn, msg)
	case protocol.CreatePoll:
		c.handleCreatePoll(ctx, conn, msg)
	case protocol.SubmitVote:
		c.handleSubmitVote(ctx, conn, msg)
	case protocol.Kick:
		c.handleKick(conn, msg)
	case protocol.ChatSend:
		c.handleChatSend(conn, msg)
	case protocol.RequestRoster:
		conn.Send(protocol.RosterUpdate(c.registry.Roster()))
	case protocol.RequestHistory:
		conn.Send(protocol.ChatHistory(c.chat.History()))
	}
}

func (c *Coordinator) handleJoin(ctx context.Context, conn Conn, msg protocol.Join) {
	reg, err := c.registry.Join(conn, msg.Role, msg.Name)
	if err != nil {
		conn.Send(protocol.Error(err.Error()))
		return
	}
	conn.Send(protocol.JoinedAck(conn.ID(), reg.Role, reg.Name))

	slog.Info("party joined", "handle", conn.ID(), "role", reg.Role, "name", reg.Name)

	if reg.Role == models.RoleStudent {
		// Catch-up snapshot for a student joining mid-poll. When the
		// deadline has passed but the expiry task has not fired yet,
		// nothing is sent; the ended state arrives with the next
		// global broadcast.
		poll, ok, err := c.lifecycle.ActivePoll(ctx)
		if err != nil {
			slog.Error("failed to query active poll on join", "error", err)
		} else if ok {
			remaining := c.lifecycle.RemainingSeconds(&poll)
			if remaining > 0 {
				conn.Send(protocol.ActiveSnapshot(poll, remaining))
			}
		}
		c.broadcast.Counts()
		c.broadcast.Roster()
		return
	}

	// Teachers get the roster directly; everyone sees the new count.
	c.broadcast.Counts()
	conn.Send(protocol.RosterUpdate(c.registry.Roster()))
}

func (c *Coordinator) handleCreatePoll(ctx context.Context, conn Conn, msg protocol.CreatePoll) {
	poll, err := c.lifecycle.Create(ctx, msg.Question, msg.Options, msg.TimeLimit)
	if err != nil {
		c.reportError(conn, "create poll", err)
		return
	}

	started, endedPrev, err := c.lifecycle.Start(ctx, poll.ID)
	if err != nil {
		c.reportError(conn, "start poll", err)
		return
	}

	if endedPrev != nil {
		slog.Info("force-ended previous poll", "poll_id", endedPrev.ID)
		c.broadcast.Global(protocol.PollEnded(*endedPrev))
	}

	slog.Info("poll started", "poll_id", started.ID, "time_limit", started.TimeLimit)
	c.broadcast.Global(protocol.PollStarted(started, started.TimeLimit))
}

func (c *Coordinator) handleSubmitVote(ctx context.Context, conn Conn, msg protocol.SubmitVote) {
	poll, err := c.ledger.Submit(ctx, msg.PollID, msg.Identity, msg.OptionID)
	if err != nil {
		if code, ok := rejectionCode(err); ok {
			conn.Send(protocol.VoteRejected(code))
			return
		}
		slog.Error("vote submission failed", "error", err, "poll_id", msg.PollID)
		conn.Send(protocol.Error("vote could not be recorded"))
		return
	}

	conn.Send(protocol.VoteAccepted(poll))
	c.broadcast.Global(protocol.PollUpdated(poll))
}

func (c *Coordinator) handleKick(conn Conn, msg protocol.Kick) {
	target, ok := c.registry.Get(msg.Handle)
	if !ok || target.Role != models.RoleStudent {
		slog.Info("kick target not found", "handle", msg.Handle)
		return
	}

	slog.Info("kicking student", "handle", msg.Handle, "name", target.Name)
	c.broadcast.To(msg.Handle, protocol.KickedNotice())

	handle := msg.Handle
	c.schedule(c.kickGrace, func() {
		c.Post(kickDeadlineEvent{handle: handle})
	})
}

func (c *Coordinator) completeKick(handle string) {
	target, ok := c.registry.Get(handle)
	if !ok {
		return
	}
	target.Conn.Close()
	c.registry.Remove(handle)
	c.broadcast.Counts()
	c.broadcast.Roster()
}

func (c *Coordinator) handleChatSend(conn Conn, msg protocol.ChatSend) {
	sender, ok := c.registry.Get(conn.ID())
	if !ok {
		conn.Send(protocol.Error("join before chatting"))
		return
	}

	name := sender.Name
	if sender.Role == models.RoleTeacher && name == "" {
		name = "Teacher"
	}
	chatMsg := c.chat.Append(msg.Text, name, sender.Role)
	c.broadcast.Global(protocol.ChatBroadcast(chatMsg))
}

func (c *Coordinator) handleDisconnect(handle string) {
	if !c.registry.Remove(handle) {
		return
	}
	slog.Info("party disconnected", "handle", handle)
	c.broadcast.Counts()
	c.broadcast.Roster()
}

func (c *Coordinator) handlePollExpired(ctx context.Context, pollID string) {
	poll, changed, err := c.lifecycle.End(ctx, pollID)
	if err != nil {
		slog.Error("failed to end expired poll", "error", err, "poll_id", pollID)
		return
	}
	// A fire after a manual or forced end reports no transition and must
	// stay silent.
	if !changed {
		return
	}
	slog.Info("poll expired", "poll_id", pollID)
	c.broadcast.Global(protocol.PollEnded(poll))
}

// reportError sends a structured rejection for business-rule failures and a
// generic one for persistence failures, which are additionally logged.
func (c *Coordinator) reportError(conn Conn, op string, err error) {
	if errors.Is(err, models.ErrValidation) || errors.Is(err, models.ErrNotFound) {
		conn.Send(protocol.Error(err.Error()))
		return
	}
	slog.Error(op+" failed", "error", err)
	conn.Send(protocol.Error(op + " failed"))
}

// rejectionCode maps ledger errors to wire reason codes.
func rejectionCode(err error) (string, bool) {
	switch {
	case errors.Is(err, models.ErrDuplicateVote):
		return "duplicate-vote", true
	case errors.Is(err, models.ErrPollNotActive):
		return "poll-not-active", true
	case errors.Is(err, models.ErrPollExpired):
		return "poll-expired", true
	case errors.Is(err, models.ErrUnknownOption):
		return "unknown-option", true
	}
	return "", false
}
