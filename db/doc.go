// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables.

# Tables

  - poll: question, lifecycle status, deadline, vote total
  - option: answer choices per poll, in display order
  - vote: one row per (poll, student) ballot

# Relationships

	poll 1──* option
	poll 1──* vote

vote carries PRIMARY KEY (poll_id, student_name); the database enforces
the one-vote-per-student rule even if in-memory checks are bypassed.

The SQL sticks to the dialect both lib/pq and modernc.org/sqlite accept.
*/
package db
