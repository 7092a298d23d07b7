// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidUserToken = errors.New("invalid user token")

// UserTokenHeader carries the signed identity of an authenticated caller.
const UserTokenHeader = "X-User-Token"

// NewID creates an opaque identifier for a poll, option, or vote row.
func NewID() string {
	return uuid.NewString()
}

// GenerateUserToken creates a signed token of the form "<user_id>.<sig>".
// This is deterministic and verifiable; the identity provider that owns
// sign-in mints these, and this server only checks the signature.
func GenerateUserToken(userID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(userID))
	sum := h.Sum(nil)
	// URL-safe base64 without padding for cleaner tokens
	sig := strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
	return userID + "." + sig
}

// VerifyUserToken checks the token signature and returns the user id.
func VerifyUserToken(token, salt string) (string, error) {
	i := strings.LastIndex(token, ".")
	if i <= 0 {
		return "", ErrInvalidUserToken
	}
	userID := token[:i]
	expected := GenerateUserToken(userID, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return "", ErrInvalidUserToken
	}
	return userID, nil
}

// CurrentUserID resolves the acting identity from a request. An absent
// token means an anonymous caller and returns ("", nil); a token that is
// present but fails verification is an error, never silently anonymous.
func CurrentUserID(r *http.Request, salt string) (string, error) {
	token := r.Header.Get(UserTokenHeader)
	if token == "" {
		return "", nil
	}
	return VerifyUserToken(token, salt)
}
