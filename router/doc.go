// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires the EasyVote HTTP routes.

NewRouter builds a net/http ServeMux with method patterns, wraps every
API handler in request logging, and applies the CORS middleware to the
whole mux:

	handler := router.NewRouter(svc)
	http.ListenAndServe(addr, handler)

Routes:

	GET    /health
	GET    /api/polls
	POST   /api/polls
	GET    /api/polls/{token}
	DELETE /api/polls/{token}
	POST   /api/polls/{token}/vote
	POST   /api/polls/{token}/stop
*/
package router
