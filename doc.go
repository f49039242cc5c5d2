// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the live-poll server.

live-poll is a classroom polling service: a teacher runs timed
multiple-choice polls over a websocket channel while students vote,
chat, and watch live result counts.

# Starting the Server

The server requires a database URL via environment variable or CLI flag:

	DATABASE_URL=file:polls.db go run .

Or with flags:

	go run . -p 3318 -d "postgres://..." -t postgres

# Configuration

Settings (flags fall back to environment variables):

  - DATABASE_URL (-d): sqlite file or PostgreSQL connection string (required)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - PORT (-p): Server port (default: 3318)
  - ALLOWED_ORIGIN (-o): Browser origin allowed for CORS and websocket
    upgrades (default: *)

# Architecture

All realtime state changes flow through a single coordinator goroutine;
HTTP handlers only read state or stage drafts:

  - session: coordinator event loop, poll lifecycle, vote ledger,
    connection registry, chat relay, broadcast fan-out
  - protocol: websocket message envelopes and payloads
  - handlers: HTTP handlers plus the websocket upgrade endpoint
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - store: Persistence over database/sql
  - models: Domain and request/response types
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
