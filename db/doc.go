// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - poll: Poll metadata and lifecycle state
  - option: Voting options per poll, ordered by position
  - vote: One row per accepted ballot, with voter hash and the
    serialized fingerprint components used for duplicate detection

# Relationships

	poll 1──* option
	poll 1──* vote
	option 1──* vote

All foreign keys use ON DELETE CASCADE. Poll deletion also removes
options and votes explicitly inside the deleting transaction, so the
cascade holds even on drivers where foreign key enforcement is off by
default.

# Indexes

Performance indexes on:

  - poll.share_token (unique)
  - poll.is_active
  - option.poll_id
  - vote.poll_id
  - vote.option_id
*/
package db
