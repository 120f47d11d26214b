// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/barto95100/EasyVote/models"
	"github.com/barto95100/EasyVote/polls"
	"github.com/barto95100/EasyVote/testutil"
)

func newPollHandler(t *testing.T) (*PollHandler, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })
	return NewPollHandler(polls.NewService(conn, testutil.GetTestConfig())), conn
}

func TestCreatePollHandler(t *testing.T) {
	h, _ := newPollHandler(t)

	req := testutil.MakeRequest("POST", "/api/polls", map[string]any{
		"title":          "Team lunch",
		"options":        []string{"Pizza", "Sushi"},
		"deletePassword": "pw123",
	}, nil)
	w := httptest.NewRecorder()
	h.CreatePoll(w, req)

	testutil.AssertStatus(t, w, 201)

	var view models.PollView
	testutil.AssertJSON(t, w, &view)
	if view.ShareToken == "" {
		t.Error("response missing share_id")
	}
	if !view.Active {
		t.Error("new poll should be active")
	}
	if len(view.Options) != 2 {
		t.Errorf("options = %d, want 2", len(view.Options))
	}
}

func TestCreatePollHandlerRejectsInvalid(t *testing.T) {
	h, _ := newPollHandler(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing title", map[string]any{"options": []string{"A"}, "deletePassword": "pw"}},
		{"missing options", map[string]any{"title": "T", "deletePassword": "pw"}},
		{"missing password", map[string]any{"title": "T", "options": []string{"A"}}},
		{"zero expiry", map[string]any{"title": "T", "options": []string{"A"}, "deletePassword": "pw", "expiresIn": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/polls", tt.body, nil)
			w := httptest.NewRecorder()
			h.CreatePoll(w, req)
			testutil.AssertStatus(t, w, 400)
		})
	}
}

func TestCreatePollHandlerRejectsBadJSON(t *testing.T) {
	h, _ := newPollHandler(t)

	req := httptest.NewRequest("POST", "/api/polls", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.CreatePoll(w, req)

	testutil.AssertStatus(t, w, 400)
}

func TestGetPollHandler(t *testing.T) {
	h, conn := newPollHandler(t)

	pollID, shareToken := testutil.CreateTestPoll(t, conn, "active")
	testutil.AddTestOption(t, conn, pollID, "A", 1)

	req := testutil.MakeRequest("GET", "/api/polls/"+shareToken, nil, nil)
	req.SetPathValue("token", shareToken)
	w := httptest.NewRecorder()
	h.GetPoll(w, req)

	testutil.AssertStatus(t, w, 200)

	var view models.PollView
	testutil.AssertJSON(t, w, &view)
	if view.ID != pollID {
		t.Errorf("id = %q, want %q", view.ID, pollID)
	}
}

func TestGetPollHandlerNotFound(t *testing.T) {
	h, _ := newPollHandler(t)

	req := testutil.MakeRequest("GET", "/api/polls/nope", nil, nil)
	req.SetPathValue("token", "nope")
	w := httptest.NewRecorder()
	h.GetPoll(w, req)

	testutil.AssertStatus(t, w, 404)
}

func TestListPollsHandler(t *testing.T) {
	h, conn := newPollHandler(t)

	testutil.CreateTestPoll(t, conn, "active")
	testutil.CreateTestPoll(t, conn, "stopped")

	req := testutil.MakeRequest("GET", "/api/polls", nil, nil)
	w := httptest.NewRecorder()
	h.ListPolls(w, req)

	testutil.AssertStatus(t, w, 200)

	var views []models.PollView
	testutil.AssertJSON(t, w, &views)
	if len(views) != 2 {
		t.Errorf("polls = %d, want 2", len(views))
	}
}

func TestStopPollHandler(t *testing.T) {
	h, conn := newPollHandler(t)

	_, shareToken := testutil.CreateTestPoll(t, conn, "active")

	stop := func(password string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/api/polls/"+shareToken+"/stop", map[string]any{
			"deletePassword": password,
		}, nil)
		req.SetPathValue("token", shareToken)
		w := httptest.NewRecorder()
		h.StopPoll(w, req)
		return w
	}

	testutil.AssertStatus(t, stop("wrong"), 403)
	testutil.AssertStatus(t, stop(testutil.TestPassword), 200)
	// Second stop: already out of the active state
	testutil.AssertStatus(t, stop(testutil.TestPassword), 409)
}

func TestStopPollHandlerRequiresPassword(t *testing.T) {
	h, conn := newPollHandler(t)

	_, shareToken := testutil.CreateTestPoll(t, conn, "active")

	req := testutil.MakeRequest("POST", "/api/polls/"+shareToken+"/stop", map[string]any{}, nil)
	req.SetPathValue("token", shareToken)
	w := httptest.NewRecorder()
	h.StopPoll(w, req)

	testutil.AssertStatus(t, w, 400)
}

func TestDeletePollHandler(t *testing.T) {
	h, conn := newPollHandler(t)

	_, shareToken := testutil.CreateTestPoll(t, conn, "active")

	del := func(password string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("DELETE", "/api/polls/"+shareToken, map[string]any{
			"deletePassword": password,
		}, nil)
		req.SetPathValue("token", shareToken)
		w := httptest.NewRecorder()
		h.DeletePoll(w, req)
		return w
	}

	testutil.AssertStatus(t, del("wrong"), 403)
	testutil.AssertStatus(t, del(testutil.TestPassword), 200)
	// Gone now
	testutil.AssertStatus(t, del(testutil.TestPassword), 404)
}
