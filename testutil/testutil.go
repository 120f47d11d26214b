// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/barto95100/EasyVote/auth"
	"github.com/barto95100/EasyVote/cliparse"
	"github.com/barto95100/EasyVote/db"
)

// TestPassword is the management password used for all test polls.
const TestPassword = "super-secret"

// testPasswordHash is computed once; bcrypt is deliberately slow and
// hashing per fixture would dominate test time.
var testPasswordHash string

func init() {
	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		panic(err)
	}
	testPasswordHash = hash
}

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call gets its own database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name, err := auth.GenerateID(8)
	if err != nil {
		t.Fatalf("Failed to generate database name: %v", err)
	}

	conn, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         5001,
		DatabaseType: "sqlite",
		SecretKey:    "test-secret-key-0123456789abcdef",
	}
}

// CreateTestPoll creates a poll and returns its ID and share token.
// status should be "active", "expired", or "stopped".
func CreateTestPoll(t *testing.T, conn *sql.DB, status string) (pollID, shareToken string) {
	t.Helper()
	return CreateTestPollExpiring(t, conn, status, 24*time.Hour)
}

// CreateTestPollExpiring creates a poll with a specific time until
// expiry (negative for already past).
func CreateTestPollExpiring(t *testing.T, conn *sql.DB, status string, expiresIn time.Duration) (pollID, shareToken string) {
	t.Helper()

	pollID, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate poll ID: %v", err)
	}
	shareToken = auth.GenerateShareToken()

	now := time.Now().UTC()
	expiresAt := now.Add(expiresIn)
	active := true
	var stoppedAt *time.Time

	switch status {
	case "expired":
		active = false
		expiresAt = now.Add(-time.Hour)
	case "stopped":
		active = false
		stopped := now.Add(-time.Minute)
		stoppedAt = &stopped
	}

	_, err = conn.Exec(`
		INSERT INTO poll (id, title, share_token, created_at, expires_at, is_active, stopped_at, delete_password_hash)
		VALUES ($1, 'Test Poll', $2, $3, $4, $5, $6, $7)
	`, pollID, shareToken, now, expiresAt, active, stoppedAt, testPasswordHash)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID, shareToken
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, label string, position int) string {
	t.Helper()

	optionID, err := auth.GenerateID(12)
	if err != nil {
		t.Fatalf("Failed to generate option ID: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO option (id, poll_id, label, position)
		VALUES ($1, $2, $3, $4)
	`, optionID, pollID, label, position)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// InsertTestVote inserts a raw vote row with the given serialized
// fingerprint components.
func InsertTestVote(t *testing.T, conn *sql.DB, pollID, optionID, components string) string {
	t.Helper()

	voteID, err := auth.GenerateID(16)
	if err != nil {
		t.Fatalf("Failed to generate vote ID: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO vote (id, poll_id, option_id, voter_hash, fingerprint_components, created_at)
		VALUES ($1, $2, $3, 'test-voter-hash', $4, $5)
	`, voteID, pollID, optionID, components, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// FingerprintEnvelope wraps a component mapping into the envelope shape
// the codec expects, padded enough to clear the entropy floor.
func FingerprintEnvelope(components map[string]any) map[string]any {
	return map[string]any{
		"components": components,
		"version":    "test",
	}
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
