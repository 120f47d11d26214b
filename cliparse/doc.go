// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles process configuration.

# Sources

Configuration is resolved in order: CLI flags, environment variables
(including a .env file loaded via godotenv), then defaults:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Options

	-p          PORT            server port (default 5001)
	-d          DATABASE_URL    database URL/path (default polls.db for sqlite)
	-t          DATABASE_TYPE   sqlite or postgres (default sqlite)
	-secret-key SECRET_KEY      voter hash secret

# Secret Key

The secret key feeds voter identity derivation. When neither the flag
nor SECRET_KEY is set, a random 256-bit key is generated for the
process lifetime: voter hashes then change across restarts, but
duplicate detection is unaffected since it compares fingerprints, not
hashes. The key value itself is never written to logs.
*/
package cliparse
