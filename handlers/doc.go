// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers for the EasyVote API.

# Handler Types

Handlers are thin adapters over the polls service:

  - PollHandler: poll CRUD and lifecycle (list, create, get, stop, delete)
  - VotingHandler: vote submission

Both are created via constructors accepting *polls.Service:

	pollHandler := handlers.NewPollHandler(svc)

# Endpoints

	GET    /api/polls               → ListPolls
	POST   /api/polls               → CreatePoll
	GET    /api/polls/{token}       → GetPoll
	POST   /api/polls/{token}/vote  → SubmitVote
	POST   /api/polls/{token}/stop  → StopPoll (requires deletePassword)
	DELETE /api/polls/{token}       → DeletePoll (requires deletePassword)

# Error Mapping

All domain decisions happen in the polls service; handlers only decode
the body, call the service and map its sentinel errors to statuses in
writeServiceError:

	400 invalid input / invalid fingerprint
	403 wrong management password
	404 poll or option not found
	409 poll inactive, already stopped, duplicate vote
	500 unexpected storage failure (logged with context)
*/
package handlers
