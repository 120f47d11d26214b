// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/barto95100/EasyVote/testutil"
)

// TestConcurrentDuplicateVotes hammers one poll with the same fingerprint
// from many goroutines. Exactly one ballot may land; the rest must fail
// as duplicates, never with a storage error.
func TestConcurrentDuplicateVotes(t *testing.T) {
	svc, conn := newTestService(t)

	pollID, shareToken := testutil.CreateTestPoll(t, conn, "active")
	optionID := testutil.AddTestOption(t, conn, pollID, "A", 1)

	const voters = 8
	var accepted, rejected atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.SubmitVote(shareToken, optionID, fingerprintFor("dev-1"))
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, ErrDuplicateVote):
				rejected.Add(1)
			default:
				t.Errorf("unexpected SubmitVote() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted.Load() != 1 {
		t.Errorf("accepted = %d, want exactly 1", accepted.Load())
	}
	if rejected.Load() != voters-1 {
		t.Errorf("rejected = %d, want %d", rejected.Load(), voters-1)
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM vote WHERE poll_id = $1", pollID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 1 {
		t.Errorf("stored votes = %d, want 1", count)
	}
}

// TestConcurrentDistinctVoters submits unrelated fingerprints in
// parallel; every ballot must land.
func TestConcurrentDistinctVoters(t *testing.T) {
	svc, conn := newTestService(t)

	pollID, shareToken := testutil.CreateTestPoll(t, conn, "active")
	optionID := testutil.AddTestOption(t, conn, pollID, "A", 1)

	const voters = 6
	var accepted atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			// Every component differs per voter, so pairwise similarity
			// is 0.0 and no submission can shadow another.
			fp := testutil.FingerprintEnvelope(map[string]any{
				"deviceId": fmt.Sprintf("dev-%d", n),
				"canvas":   fmt.Sprintf("canvas-%d", n),
				"platform": fmt.Sprintf("os-%d", n),
			})
			if err := svc.SubmitVote(shareToken, optionID, fp); err != nil {
				t.Errorf("SubmitVote() voter %d error = %v", n, err)
				return
			}
			accepted.Add(1)
		}(i)
	}
	wg.Wait()

	if accepted.Load() != voters {
		t.Errorf("accepted = %d, want %d", accepted.Load(), voters)
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM vote WHERE poll_id = $1", pollID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != voters {
		t.Errorf("stored votes = %d, want %d", count, voters)
	}
}

// TestConcurrentVotesAcrossPolls verifies that serialization is per
// poll: the same device voting on many polls at once succeeds everywhere.
func TestConcurrentVotesAcrossPolls(t *testing.T) {
	svc, conn := newTestService(t)

	const pollCount = 4
	tokens := make([]string, pollCount)
	options := make([]string, pollCount)
	for i := 0; i < pollCount; i++ {
		pollID, shareToken := testutil.CreateTestPoll(t, conn, "active")
		tokens[i] = shareToken
		options[i] = testutil.AddTestOption(t, conn, pollID, "A", 1)
	}

	var accepted atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < pollCount; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := svc.SubmitVote(tokens[n], options[n], fingerprintFor("dev-1")); err != nil {
				t.Errorf("SubmitVote() poll %d error = %v", n, err)
				return
			}
			accepted.Add(1)
		}(i)
	}
	wg.Wait()

	if accepted.Load() != pollCount {
		t.Errorf("accepted = %d, want %d", accepted.Load(), pollCount)
	}
}

// TestConcurrentStopAndVote races a stop against a burst of votes. Any
// individual vote either lands before the stop or fails PollInactive;
// nothing may land after the poll reads as stopped.
func TestConcurrentStopAndVote(t *testing.T) {
	svc, conn := newTestService(t)

	pollID, shareToken := testutil.CreateTestPoll(t, conn, "active")
	optionID := testutil.AddTestOption(t, conn, pollID, "A", 1)

	var wg sync.WaitGroup
	const voters = 4

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			fp := testutil.FingerprintEnvelope(map[string]any{
				"deviceId": fmt.Sprintf("dev-%d", n),
				"canvas":   fmt.Sprintf("canvas-%d", n),
			})
			err := svc.SubmitVote(shareToken, optionID, fp)
			if err != nil && !errors.Is(err, ErrPollInactive) {
				t.Errorf("SubmitVote() error = %v", err)
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := svc.Stop(shareToken, testutil.TestPassword); err != nil && !errors.Is(err, ErrAlreadyStopped) {
			t.Errorf("Stop() error = %v", err)
		}
	}()
	wg.Wait()

	// After the dust settles the poll is stopped and further votes bounce
	err := svc.SubmitVote(shareToken, optionID, fingerprintFor("late"))
	if !errors.Is(err, ErrPollInactive) {
		t.Errorf("SubmitVote() after stop error = %v, want ErrPollInactive", err)
	}

	var votes, active = 0, true
	if err := conn.QueryRow("SELECT COUNT(*) FROM vote WHERE poll_id = $1", pollID).Scan(&votes); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if err := conn.QueryRow("SELECT is_active FROM poll WHERE id = $1", pollID).Scan(&active); err != nil {
		t.Fatalf("Failed to query poll: %v", err)
	}
	if active {
		t.Error("poll still active after Stop()")
	}
	if votes > voters {
		t.Errorf("stored votes = %d, more than submitted", votes)
	}
}
