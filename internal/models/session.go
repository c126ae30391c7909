package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the persisted admin session blob.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	LoginTime time.Time `json:"loginTime"`
	IsAdmin   bool      `json:"isAdmin"`
}

// SessionClaims is the JWT payload issued at login. The token references the
// persisted session so logout and expiry checks stay server-side.
type SessionClaims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
	IssuedAt  time.Time `json:"issuedAt"`
	Username  string    `json:"username"`
}
