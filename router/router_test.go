// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/barto95100/EasyVote/models"
	"github.com/barto95100/EasyVote/polls"
	"github.com/barto95100/EasyVote/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })
	return NewRouter(polls.NewService(conn, testutil.GetTestConfig()))
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("GET", "/health", nil, nil))

	testutil.AssertStatus(t, w, 200)
	if w.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("OPTIONS", "/api/polls", nil, nil))

	testutil.AssertStatus(t, w, 200)
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("PUT", "/api/polls", nil, nil))

	testutil.AssertStatus(t, w, http.StatusMethodNotAllowed)
}

// TestFullVotingFlow walks create, fetch, vote and duplicate rejection
// through the real routes, path values resolved by the mux.
func TestFullVotingFlow(t *testing.T) {
	router := newTestRouter(t)

	// Create
	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/api/polls", map[string]any{
		"title":          "Release name",
		"options":        []string{"Aurora", "Borealis"},
		"deletePassword": "pw123",
	}, nil))
	testutil.AssertStatus(t, w, 201)

	var created models.PollView
	testutil.AssertJSON(t, w, &created)
	if created.ShareToken == "" {
		t.Fatal("create response missing share_id")
	}

	// Fetch by share token
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("GET", "/api/polls/"+created.ShareToken, nil, nil))
	testutil.AssertStatus(t, w, 200)

	// Vote
	ballot := map[string]any{
		"optionId": created.Options[0].ID,
		"fingerprint": testutil.FingerprintEnvelope(map[string]any{
			"deviceId": "dev-1",
			"canvas":   "c1",
			"platform": "mac",
		}),
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/api/polls/"+created.ShareToken+"/vote", ballot, nil))
	testutil.AssertStatus(t, w, 200)

	// Same device again
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/api/polls/"+created.ShareToken+"/vote", ballot, nil))
	testutil.AssertStatus(t, w, 409)

	// The count is visible on the next fetch
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("GET", "/api/polls/"+created.ShareToken, nil, nil))
	testutil.AssertStatus(t, w, 200)

	var fetched models.PollView
	testutil.AssertJSON(t, w, &fetched)
	if fetched.TotalVotes != 1 {
		t.Errorf("total votes = %d, want 1", fetched.TotalVotes)
	}

	// Stop, then voting bounces
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/api/polls/"+created.ShareToken+"/stop", map[string]any{
		"deletePassword": "pw123",
	}, nil))
	testutil.AssertStatus(t, w, 200)

	otherBallot := map[string]any{
		"optionId": created.Options[1].ID,
		"fingerprint": testutil.FingerprintEnvelope(map[string]any{
			"deviceId": "dev-2",
			"canvas":   "c2",
			"platform": "win",
		}),
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/api/polls/"+created.ShareToken+"/vote", otherBallot, nil))
	testutil.AssertStatus(t, w, 409)

	// Delete
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("DELETE", "/api/polls/"+created.ShareToken, map[string]any{
		"deletePassword": "pw123",
	}, nil))
	testutil.AssertStatus(t, w, 200)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("GET", "/api/polls/"+created.ShareToken, nil, nil))
	testutil.AssertStatus(t, w, 404)
}
