// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements poll creation, editing, deletion, and reads.

Editing reconciles the submitted option list against what is stored:
updates keep their option ids and vote counts, new options are inserted,
and options dropped from the list are deleted. option_order is
recomputed densely (0..n-1) from the submitted order on every edit.
*/
package polls
