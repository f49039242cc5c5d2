// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/live-poll/models"
	"github.com/danielhkuo/live-poll/protocol"
)

// Conn is one connected party as seen by the session core. The transport
// owns delivery; Send must never block the caller.
type Conn interface {
	ID() string
	Send(msg protocol.Outbound)
	Close()
}

// Connection is a registered party. Owned exclusively by the Registry.
type Connection struct {
	Conn     Conn
	Role     string
	Name     string
	JoinedAt time.Time
}

// Registry tracks connected parties by handle. It is only ever touched from
// the coordinator's event loop, so it carries no lock.
type Registry struct {
	conns map[string]*Connection
	order []string
	now   func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*Connection),
		now:   time.Now,
	}
}

// Join registers a connection. Students must supply a non-empty display
// name; a name sent by a teacher is ignored.
func (r *Registry) Join(conn Conn, role, name string) (*Connection, error) {
	if role == models.RoleStudent && strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: student name is required", models.ErrValidation)
	}
	if role == models.RoleTeacher {
		name = ""
	}

	c := &Connection{
		Conn:     conn,
		Role:     role,
		Name:     name,
		JoinedAt: r.now(),
	}
	handle := conn.ID()
	if _, exists := r.conns[handle]; !exists {
		r.order = append(r.order, handle)
	}
	r.conns[handle] = c
	return c, nil
}

// Get returns the connection for a handle.
func (r *Registry) Get(handle string) (*Connection, bool) {
	c, ok := r.conns[handle]
	return c, ok
}

// Remove deletes a connection and reports whether it existed.
func (r *Registry) Remove(handle string) bool {
	if _, ok := r.conns[handle]; !ok {
		return false
	}
	delete(r.conns, handle)
	for i, h := range r.order {
		if h == handle {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Roster lists connected students in join order. Teachers are excluded.
func (r *Registry) Roster() []models.RosterEntry {
	roster := []models.RosterEntry{}
	for _, handle := range r.order {
		c := r.conns[handle]
		if c.Role != models.RoleStudent {
			continue
		}
		roster = append(roster, models.RosterEntry{
			Handle:   handle,
			Name:     c.Name,
			JoinedAt: c.JoinedAt,
		})
	}
	return roster
}

// Counts returns the total connection count and the student count.
func (r *Registry) Counts() (total, students int) {
	total = len(r.conns)
	for _, c := range r.conns {
		if c.Role == models.RoleStudent {
			students++
		}
	}
	return total, students
}

// Each visits every connection in join order.
func (r *Registry) Each(fn func(handle string, c *Connection)) {
	for _, handle := range r.order {
		fn(handle, r.conns[handle])
	}
}
