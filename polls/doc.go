// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements the poll lifecycle and the anti-fraud vote
ledger behind the HTTP layer.

# Service

Service exposes the operations the transport layer consumes:

	svc := polls.NewService(db, cfg)
	view, err := svc.Create(req)
	view, err = svc.Get(shareToken)
	err = svc.SubmitVote(shareToken, optionID, rawFingerprint)
	err = svc.Stop(shareToken, password)
	err = svc.Delete(shareToken, password)

Every failure is one of the sentinel errors in errors.go, testable with
errors.Is; anything else is an unexpected storage fault.

# Lifecycle

Polls are created active with an expiration timestamp. There is no
background sweeper: every read path calls applyExpiration before
trusting is_active, and CleanupExpired catches up once at startup.
Leaving the active state (expiry or explicit stop) is one-way.

# Vote Ledger

SubmitVote is the one critical section of the system. Under the poll's
mutex, inside a single transaction, it loads all fingerprints recorded
for the poll, runs the duplicate detector, and inserts the vote only
when no match is found. Per-poll locking means concurrent submissions
to the same poll serialize while different polls proceed in parallel.

A stored fingerprint that fails to parse is skipped and logged; one
corrupt historical row must never block future voting on the poll.
*/
package polls
