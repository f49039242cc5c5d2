// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package protocol defines the websocket message contract.

Every frame is a JSON envelope:

	{"type": "...", "payload": {...}}

# Inbound

Parse validates a raw frame and returns one of the Inbound variants
(Join, CreatePoll, SubmitVote, Kick, ChatSend, RequestRoster,
RequestHistory). Validation happens here, at the boundary; the session
package can assume a parsed message is well-formed.

# Outbound

Outbound messages are built through constructors (PollStarted,
VoteRejected, RosterUpdate, ...) so each type always carries the right
payload shape. KickedNotice has no payload at all.
*/
package protocol
