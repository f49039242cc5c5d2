// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/live-poll/cliparse"
	"github.com/danielhkuo/live-poll/handlers"
	"github.com/danielhkuo/live-poll/middleware"
	"github.com/danielhkuo/live-poll/session"
)

func NewRouter(coordinator *session.Coordinator, store session.Store, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(coordinator.Lifecycle(), store)
	wsHandler := handlers.NewWSHandler(coordinator, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll read/create endpoints (thin delegations to the session core)
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/active", middleware.WithLogging(pollHandler.GetActivePoll))
	mux.HandleFunc("GET /polls/history", middleware.WithLogging(pollHandler.GetHistory))

	// Bidirectional event channel
	mux.HandleFunc("GET /ws", wsHandler.Serve)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("live-poll API v1"))
	})

	return middleware.CORS(cfg.AllowedOrigin, mux)
}
