// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the live-poll API.

# Handler Types

  - PollHandler: poll creation and read-only queries over HTTP
  - WSHandler: websocket upgrades feeding the session coordinator

# Poll Endpoints

	POST /polls          → CreatePoll (stages a draft; nothing broadcast)
	GET  /polls/active   → GetActivePoll (poll plus remaining seconds)
	GET  /polls/history  → GetHistory (finished polls, newest first)

Starting a poll happens over the websocket channel, not HTTP, so the
broadcast and the state change come from the same coordinator event.

# Websocket Endpoint

	GET /ws → Serve

Serve upgrades the connection and runs a read pump and a write pump per
client. Parsed frames are posted to the coordinator as events; the
coordinator is the only goroutine that touches session state. Slow
clients have frames dropped rather than stalling the fan-out.
*/
package handlers
