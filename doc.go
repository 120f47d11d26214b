// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the EasyVote API server.

EasyVote is a time-bounded anonymous polling service. Anyone with a
poll's share link can vote once; repeat votes from the same device are
rejected by comparing client fingerprints, without accounts or cookies.

# Starting the Server

The server runs on SQLite out of the box:

	go run main.go

Or against PostgreSQL:

	go run main.go -t postgres -d "postgres://..."

# Configuration

All settings are optional (flags or environment, .env supported):

  - PORT (-p): server port (default: 5001)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): connection string or sqlite path (default: polls.db)
  - SECRET_KEY (-secret-key): voter hash secret; generated per process
    when absent

# Architecture

The HTTP layer is a thin shell around the polls service:

  - polls: poll lifecycle and the anti-fraud vote ledger
  - fingerprint: fingerprint codec and duplicate detection
  - auth: voter hash derivation, share tokens, password hashing
  - handlers: HTTP request handlers
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: domain and request/response types
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
