// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types and JSON payloads shared across
the EasyVote service.

# Domain Types

Poll, Option and Vote mirror the relational schema in package db. A Poll
owns its Options (fixed at creation) and its Votes (one per accepted
ballot). Vote carries the derived voter hash and the serialized
fingerprint components; both are excluded from JSON output.

# Lifecycle

A poll is active only while its is_active flag is set AND the current
time is before expires_at. Poll.Status derives the reported state:

	active  → accepting votes
	expired → expiration timestamp passed
	stopped → explicitly stopped by its owner

Leaving the active state is one-way; no code path sets is_active back
to true.

# Request/Response Types

CreatePollRequest, VoteRequest and ManagePollRequest are the decoded
HTTP bodies. PollView is the external poll representation returned by
list/get/create; it never exposes the delete password hash, voter
hashes, or raw fingerprints.
*/
package models
