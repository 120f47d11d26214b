// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import "errors"

// Typed results returned to the transport layer. Anything else coming
// out of the service is a storage failure and is logged with context.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidFingerprint = errors.New("invalid fingerprint")
	ErrPollNotFound       = errors.New("poll not found")
	ErrOptionNotFound     = errors.New("option not found")
	ErrPollInactive       = errors.New("poll is not active")
	ErrAlreadyStopped     = errors.New("poll is already stopped")
	ErrDuplicateVote      = errors.New("duplicate vote")
	ErrForbidden          = errors.New("wrong management password")
)
