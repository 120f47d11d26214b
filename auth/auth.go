// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/sha3"
)

var (
	ErrFingerprintTooShort = errors.New("fingerprint below minimum length")
	ErrWrongPassword       = errors.New("wrong password")
)

// minFingerprintLen is the minimum-entropy floor for the serialized
// fingerprint accepted into identity derivation.
const minFingerprintLen = 32

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateShareToken creates the public, unguessable token used in all
// external references to a poll.
func GenerateShareToken() string {
	return uuid.NewString()
}

// GenerateSecretKey creates the process-wide secret used for voter
// identity derivation: 32 random bytes, hex encoded. Called once at
// startup when no secret is configured; the value must never be logged.
func GenerateSecretKey() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// DeriveVoterHash derives the stable, non-reversible voter identity
// token for one fingerprint on one poll. Deterministic for identical
// inputs; a different poll id or secret yields an unrelated token, so
// the same device is unlinkable across polls.
//
// The token is stored per vote for audit only - duplicate detection
// runs on the fingerprint components, not on this hash.
func DeriveVoterHash(pollID, serializedFingerprint, secret string) (string, error) {
	if len(serializedFingerprint) < minFingerprintLen {
		return "", fmt.Errorf("%w: %d chars", ErrFingerprintTooShort, len(serializedFingerprint))
	}

	data := serializedFingerprint + ":" + pollID + ":" + secret
	sum := sha3.Sum512([]byte(data))
	return hex.EncodeToString(sum[:]), nil
}

// HashPassword hashes a poll management password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a management password against its stored hash.
// Returns ErrWrongPassword on mismatch.
func CheckPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}
