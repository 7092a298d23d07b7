// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the JSON request and response types of the API.

Every response carries a success flag; failures always come as
ErrorResponse with the error message passed through from the layer that
produced it.
*/
package models
