// Package token reads display claims out of the platform's session JWT.
// Nothing here verifies a signature: authorization stays server-side, the
// client only wants to know who it is acting as.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the console surfaces from a session token.
type Claims struct {
	UserID    string
	Username  string
	ExpiresAt time.Time
}

// Peek decodes the token without verification. Tokens that are not JWTs
// (some backends issue opaque session strings) return an error; callers
// treat that as "no claims available", not as an auth failure.
func Peek(raw string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("token: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("token: unexpected claims shape")
	}

	var c Claims
	if sub, err := mc.GetSubject(); err == nil {
		c.UserID = sub
	}
	if c.UserID == "" {
		if v, ok := mc["user_id"].(string); ok {
			c.UserID = v
		}
	}
	if v, ok := mc["username"].(string); ok {
		c.Username = v
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// Expired reports whether the token has an expiry in the past.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
