// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollstand API server.

Pollstand is a poll creation and voting service: signed-in users create
polls with 2-10 options, share them, and collect single-choice votes from
signed-in or anonymous participants. Results are served as per-option
counts and percentages.

# Starting the Server

The server reads configuration from a .env file, environment variables,
or CLI flags:

	DATABASE_URL=polls.db USER_TOKEN_SALT=... go run main.go

Or with flags:

	go run main.go -p 3414 -d polls.db -t sqlite

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string (postgres URL or sqlite file path)
  - USER_TOKEN_SALT (--user-salt): secret for user token HMAC

Optional settings:

  - PORT (-p): server port (default: 3414)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, voting, results)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response types
  - auth: entity IDs, user token generation and validation
  - store: storage contract, SQL and in-memory implementations
  - voting: voter identity resolution and vote recording
  - polls: poll mutation and read services
  - db: database open and schema creation
  - cliparse: configuration parsing
  - testutil: hermetic test database and fixtures

See package documentation for each component.
*/
package main
