package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRecord is the server-side half of an access token. Deleting it
// invalidates every token that points at it.
type SessionRecord struct {
	SessionID string
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

// AccessClaims is what a verified token asserts about the caller.
type AccessClaims struct {
	UserID    int64
	SessionID string
	Role      string
	ExpiresAt time.Time
}

type AuthResult struct {
	AccessToken   string
	AccessExpires time.Time
	SessionID     string
}
