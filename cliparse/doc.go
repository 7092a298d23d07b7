// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment variables.

CLI flags take precedence over environment variables. Secrets should be
provided via environment variables in production; flags exist for local
development convenience.

	-p / PORT             server port (default 3414)
	-d / DATABASE_URL     connection string (required)
	-t / DATABASE_TYPE    sqlite or postgres (default sqlite)
	--user-salt / USER_TOKEN_SALT   secret for user token HMAC (required)
*/
package cliparse
