// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session implements the realtime classroom session.

# Coordinator

All session state changes run on one goroutine. The Coordinator owns an
event channel; websocket pumps, disconnects, and timer callbacks post
events, and Run dispatches them one at a time:

	c := session.NewCoordinator(store)
	go c.Run(ctx)
	c.Post(session.MessageEvent{Conn: conn, Msg: msg})

Because every handler runs to completion before the next event starts,
there are no locks on session state and no interleaving between the
check and the write of any operation.

# Components

The coordinator composes four loop-confined pieces:

  - Lifecycle: draft → active → ended state machine with the expiry
    timer; at most one poll is active at a time, and starting a new
    poll force-ends the previous one
  - Ledger: vote recording; rejects duplicates, inactive polls, expired
    deadlines, and unknown options before anything is written
  - Registry: connected participants keyed by handle; students need a
    display name, the roster lists students in join order
  - ChatRelay: last 100 chat messages, oldest evicted first

Broadcaster fans messages out to every registered connection or to one
handle.

# Timers

Poll expiry and kick grace delays go through an injectable schedule
function. Fired timers post events back to the loop instead of touching
state directly, so a stale expiry for an already-ended poll is a silent
no-op.
*/
package session
