// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides entity ID generation and the identity boundary.

Sign-in and session management live outside this server. Authenticated
callers present an HMAC-signed token in the X-User-Token header; this
package verifies the signature and extracts the user id, or reports the
caller as anonymous when no token is present.
*/
package auth
