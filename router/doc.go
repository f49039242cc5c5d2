// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the live-poll API.

# Route Registration

NewRouter creates a configured handler with all endpoints:

	handler := router.NewRouter(coordinator, store, cfg)

# Endpoints

Health:

	GET /health

Poll management:

	POST /polls          - Create a draft poll
	GET  /polls/active   - Active poll with remaining seconds
	GET  /polls/history  - Finished polls, newest first

Realtime channel:

	GET /ws - Websocket upgrade; all session traffic flows here

The whole mux is wrapped in middleware.CORS using the configured origin.
*/
package router
