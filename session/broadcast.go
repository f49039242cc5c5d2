// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"github.com/danielhkuo/live-poll/protocol"
)

// Broadcaster fans state changes out to connected parties: either a global
// broadcast to every connection or a targeted notice to one handle.
type Broadcaster struct {
	registry *Registry
}

func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Global sends a message to every connection.
func (b *Broadcaster) Global(msg protocol.Outbound) {
	b.registry.Each(func(_ string, c *Connection) {
		c.Conn.Send(msg)
	})
}

// To sends a message to one connection. Reports whether the handle existed.
func (b *Broadcaster) To(handle string, msg protocol.Outbound) bool {
	c, ok := b.registry.Get(handle)
	if !ok {
		return false
	}
	c.Conn.Send(msg)
	return true
}

// Counts broadcasts the current connection counts to everyone.
func (b *Broadcaster) Counts() {
	total, students := b.registry.Counts()
	b.Global(protocol.ConnectionCount(total, students))
}

// Roster broadcasts the current student roster to everyone.
func (b *Broadcaster) Roster() {
	b.Global(protocol.RosterUpdate(b.registry.Roster()))
}
