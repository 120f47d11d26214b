// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll status constants
const (
	StatusActive  = "active"
	StatusExpired = "expired"
	StatusStopped = "stopped"
)

// Request types

type CreatePollRequest struct {
	Title          string   `json:"title"`
	Options        []string `json:"options"`
	DeletePassword string   `json:"deletePassword"`
	// Hours until the poll expires. Defaults to 24 when omitted; an
	// explicit value must be > 0.
	ExpiresInHours *float64 `json:"expiresIn"`
}

type VoteRequest struct {
	OptionID string `json:"optionId"`
	// Fingerprint is either a JSON object or a JSON string containing
	// a serialized object; the codec accepts both envelopes.
	Fingerprint any `json:"fingerprint"`
}

type ManagePollRequest struct {
	DeletePassword string `json:"deletePassword"`
}

// Response types

type VoteResponse struct {
	Success bool `json:"success"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type OptionView struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// PollView is the external representation of a poll. The internal id is
// included for display; all addressing goes through ShareToken.
type PollView struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	ShareToken string       `json:"share_id"`
	ExpiresAt  time.Time    `json:"expires_at"`
	Active     bool         `json:"is_active"`
	Options    []OptionView `json:"options"`
	TotalVotes int          `json:"total_votes"`
}

// Domain types

type Poll struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	ShareToken         string     `json:"share_id"`
	CreatedAt          time.Time  `json:"created_at"`
	ExpiresAt          time.Time  `json:"expires_at"`
	Active             bool       `json:"is_active"`
	StoppedAt          *time.Time `json:"stopped_at,omitempty"`
	DeletePasswordHash string     `json:"-"` // Never expose in JSON
}

// Status reports the lifecycle state at the given instant. A poll that
// left Active never returns to it.
func (p *Poll) Status(now time.Time) string {
	if p.Active && now.Before(p.ExpiresAt) {
		return StatusActive
	}
	if p.StoppedAt != nil {
		return StatusStopped
	}
	return StatusExpired
}

type Option struct {
	ID       string `json:"id"`
	PollID   string `json:"poll_id"`
	Label    string `json:"text"`
	Position int    `json:"position"`
}

type Vote struct {
	ID         string    `json:"id"`
	PollID     string    `json:"poll_id"`
	OptionID   string    `json:"option_id"`
	VoterHash  string    `json:"-"` // Never expose in JSON
	Components string    `json:"-"` // Serialized fingerprint mapping
	CreatedAt  time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
