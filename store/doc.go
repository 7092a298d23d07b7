// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store defines the storage contract the core services depend on,
plus two implementations: SQL (sqlx over postgres or sqlite) and Mem
(an in-memory fake for tests).

The services never see a database handle; they see the Store interface.
That keeps the vote and mutation logic testable without a database and
pins down exactly which storage capabilities the system relies on.
*/
package store
