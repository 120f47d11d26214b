// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity derivation and secret handling for
EasyVote.

# Voter Identity

DeriveVoterHash binds a fingerprint to one poll:

	hash, err := auth.DeriveVoterHash(pollID, env.Serialized(), cfg.SecretKey)

The digest is sha3-512 over serialized:pollID:secret. It is one-way,
deterministic, and poll-scoped: the same device produces unlinkable
hashes on different polls. Serialized fingerprints shorter than 32
characters are rejected (minimum-entropy floor).

# Secrets

GenerateSecretKey bootstraps the process-wide derivation secret when
none is configured. GenerateShareToken produces public poll tokens
(uuid4); GenerateID produces random hex internal ids.

# Management Passwords

HashPassword/CheckPassword wrap bcrypt for the stop/delete password on
each poll.
*/
package auth
