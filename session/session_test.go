// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/danielhkuo/live-poll/models"
	"github.com/danielhkuo/live-poll/protocol"
)

// fakeStore is an in-memory Store for exercising the session core without a
// database. It copies records on the way in and out so callers never alias
// stored state, matching how a real store behaves.
type fakeStore struct {
	mu    sync.Mutex
	polls map[string]models.Poll
	votes map[string]models.Vote
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		polls: make(map[string]models.Poll),
		votes: make(map[string]models.Vote),
	}
}

func copyPoll(p models.Poll) models.Poll {
	out := p
	out.Options = make([]models.Option, len(p.Options))
	copy(out.Options, p.Options)
	return out
}

func (f *fakeStore) CreatePoll(_ context.Context, poll models.Poll) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls[poll.ID] = copyPoll(poll)
	return nil
}

func (f *fakeStore) FindPoll(_ context.Context, id string) (models.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, ok := f.polls[id]
	if !ok {
		return models.Poll{}, models.ErrNotFound
	}
	return copyPoll(poll), nil
}

func (f *fakeStore) UpdatePoll(_ context.Context, poll models.Poll) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.polls[poll.ID]; !ok {
		return models.ErrNotFound
	}
	f.polls[poll.ID] = copyPoll(poll)
	return nil
}

func (f *fakeStore) ActivePoll(_ context.Context) (models.Poll, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, poll := range f.polls {
		if poll.Status == models.StatusActive {
			return copyPoll(poll), true, nil
		}
	}
	return models.Poll{}, false, nil
}

func (f *fakeStore) PollHistory(_ context.Context) ([]models.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	polls := []models.Poll{}
	for _, poll := range f.polls {
		if poll.Status != models.StatusActive {
			polls = append(polls, copyPoll(poll))
		}
	}
	sort.Slice(polls, func(i, j int) bool {
		return polls[i].CreatedAt.After(polls[j].CreatedAt)
	})
	return polls, nil
}

func (f *fakeStore) InsertVote(_ context.Context, vote models.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := vote.PollID + "|" + vote.StudentName
	if _, exists := f.votes[key]; exists {
		return models.ErrDuplicateVote
	}
	f.votes[key] = vote
	return nil
}

func (f *fakeStore) HasVote(_ context.Context, pollID, studentName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.votes[pollID+"|"+studentName]
	return ok, nil
}

func (f *fakeStore) activeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, poll := range f.polls {
		if poll.Status == models.StatusActive {
			n++
		}
	}
	return n
}

// fakeConn records everything sent to it.
type fakeConn struct {
	id     string
	sent   []protocol.Outbound
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string                 { return c.id }
func (c *fakeConn) Send(msg protocol.Outbound) { c.sent = append(c.sent, msg) }
func (c *fakeConn) Close()                     { c.closed = true }

func (c *fakeConn) countType(msgType string) int {
	n := 0
	for _, msg := range c.sent {
		if msg.Type == msgType {
			n++
		}
	}
	return n
}

func (c *fakeConn) lastOfType(msgType string) (protocol.Outbound, bool) {
	for i := len(c.sent) - 1; i >= 0; i-- {
		if c.sent[i].Type == msgType {
			return c.sent[i], true
		}
	}
	return protocol.Outbound{}, false
}

// manualClock lets tests move time by hand.
type manualClock struct {
	t time.Time
}

func (c *manualClock) Now() time.Time {
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// manualScheduler captures scheduled tasks so tests decide when they fire.
type manualScheduler struct {
	tasks []scheduledTask
}

type scheduledTask struct {
	delay time.Duration
	fn    func()
}

func (s *manualScheduler) schedule(d time.Duration, fn func()) {
	s.tasks = append(s.tasks, scheduledTask{delay: d, fn: fn})
}

func (s *manualScheduler) fire(i int) {
	s.tasks[i].fn()
}

// newTestCoordinator wires a coordinator to the fakes, with all clocks and
// schedulers under test control.
func newTestCoordinator(fs *fakeStore, clk *manualClock, sched *manualScheduler) *Coordinator {
	c := NewCoordinator(fs)
	c.lifecycle.now = clk.Now
	c.lifecycle.schedule = sched.schedule
	c.ledger.now = clk.Now
	c.registry.now = clk.Now
	c.chat.now = clk.Now
	c.schedule = sched.schedule
	return c
}

// drainEvents processes everything queued on the coordinator, e.g. events
// posted by fired timers.
func drainEvents(c *Coordinator) {
	for {
		select {
		case ev := <-c.events:
			c.dispatch(context.Background(), ev)
		default:
			return
		}
	}
}
