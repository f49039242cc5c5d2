// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists polls, options, and votes over database/sql.

The Store works against both lib/pq and modernc.org/sqlite; queries use
$1 placeholders, which both drivers accept.

Failures map to the sentinel errors in models: a missing poll is
models.ErrNotFound, and a vote hitting the (poll_id, student_name)
primary key is models.ErrDuplicateVote regardless of driver.
*/
package store
