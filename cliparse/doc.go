// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite file or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - AllowedOrigin: Browser origin for CORS and websocket upgrades (default: *)

# CLI Flags

	-p  Server port
	-d  Database URL
	-t  Database type
	-o  Allowed origin

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ALLOWED_ORIGIN → -o

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if DATABASE_URL is missing or the database
type is not sqlite or postgres.
*/
package cliparse
