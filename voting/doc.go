// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements vote recording and voter identity resolution.

A voter is identified by a single key: the user id for authenticated
callers, a client-supplied opaque fingerprint for anonymous ones. The
engine enforces one vote per (poll, voter key), backed by the store's
uniqueness constraint, and keeps the denormalized poll and option
counters in step with the vote ledger.
*/
package voting
