// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP request handlers.

Handlers are thin: they resolve the caller's identity, decode and shape
the request, call into the polls or voting service, and map service
errors to HTTP statuses. All business rules live in those services.
*/
package handlers
