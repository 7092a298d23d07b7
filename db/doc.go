// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database connection and creates the schema.

Two drivers are supported: lib/pq for production postgres and the
cgo-free modernc.org/sqlite for development and tests. The DDL is kept
portable across both; created_at values are always written explicitly
instead of relying on database defaults.
*/
package db
