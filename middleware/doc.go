// Copyright (c) 2025 Barto95100.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP cross-cutting helpers.

# Request Logging

WithLogging wraps a handler and logs request start/completion with
method, path, client IP and duration:

	mux.HandleFunc("GET /api/polls", middleware.WithLogging(h.ListPolls))

# JSON Helpers

JSONResponse and ErrorResponse write JSON bodies with the right
Content-Type; ParseJSONBody decodes request bodies.

# CORS

CORS allows any origin on the API (polls are shared by link) and
answers OPTIONS preflights directly.

# Client IP

GetClientIP resolves the caller address through X-Forwarded-For and
X-Real-IP before falling back to RemoteAddr.
*/
package middleware
