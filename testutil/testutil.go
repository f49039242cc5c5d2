// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/live-poll/cliparse"
	"github.com/danielhkuo/live-poll/db"
	"github.com/danielhkuo/live-poll/models"
)

// SetupTestDB creates a fresh SQLite database with the full schema. Each
// test gets its own file under t.TempDir, so no external server is needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbConn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { dbConn.Close() })

	if err := db.CreateSchema(dbConn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return dbConn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "file:test.db",
		DatabaseType:  "sqlite",
		AllowedOrigin: "*",
	}
}

// CreateTestPoll inserts a poll with two options and returns it.
// status should be "draft", "active", or "ended".
func CreateTestPoll(t *testing.T, dbConn *sql.DB, status string, timeLimit int) models.Poll {
	t.Helper()

	now := time.Now()
	poll := models.Poll{
		ID:        uuid.NewString(),
		Question:  "Test question?",
		TimeLimit: timeLimit,
		Status:    status,
		CreatedAt: now,
	}
	if status == models.StatusActive || status == models.StatusEnded {
		started := now
		ends := started.Add(time.Duration(timeLimit) * time.Second)
		poll.StartedAt = &started
		poll.EndsAt = &ends
	}

	_, err := dbConn.Exec(`
		INSERT INTO poll (id, question, time_limit, started_at, ends_at, status, total_votes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`, poll.ID, poll.Question, poll.TimeLimit, poll.StartedAt, poll.EndsAt, poll.Status, poll.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, text := range []string{"Option A", "Option B"} {
		opt := models.Option{
			ID:     uuid.NewString(),
			PollID: poll.ID,
			Text:   text,
		}
		_, err := dbConn.Exec(`
			INSERT INTO option (id, poll_id, position, text, votes, correct)
			VALUES ($1, $2, $3, $4, 0, $5)
		`, opt.ID, opt.PollID, i, opt.Text, opt.Correct)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		poll.Options = append(poll.Options, opt)
	}

	return poll
}

// AddTestVote records a vote row directly.
func AddTestVote(t *testing.T, dbConn *sql.DB, pollID, studentName, optionID string) {
	t.Helper()

	_, err := dbConn.Exec(`
		INSERT INTO vote (poll_id, student_name, option_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, pollID, studentName, optionID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// Ctx returns a context for store calls in tests.
func Ctx(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
