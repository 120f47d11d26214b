// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fingerprint validates client device fingerprints and decides
whether two of them belong to the same device.

# Codec

Normalize accepts the payload as sent by the frontend - a JSON object or
a JSON string - and requires a "components" object inside:

	env, err := fingerprint.Normalize(req.Fingerprint)

The result carries the normalized component mapping and the canonical
serialization of the whole envelope (the input to voter identity
derivation in package auth).

# Duplicate Detection

Similarity scores two component mappings in [0, 1]. A deviceId match or
3+ matches among the critical components (deviceId, hardwareConcurrency,
deviceMemory, platform, canvas) scores 1.0 outright; otherwise the score
is the ratio of matching values over shared keys. IsDuplicate applies
the 0.5 threshold against every fingerprint previously recorded on the
same poll.

Comparisons use Render, a canonical string form, so a numeric component
and its textual representation compare equal.

The fingerprint is client-supplied and spoofable: this is low-friction
deterrence of casual double-voting, not an anti-sybil system.
*/
package fingerprint
