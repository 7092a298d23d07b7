// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires handlers to routes using Go 1.22+ method and
pattern matching on http.ServeMux. The literal /polls/public pattern
takes precedence over the /polls/{id} wildcard.
*/
package router
