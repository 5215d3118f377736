// Package session reads identity out of the bearer token. The backend signs
// and verifies tokens; the client only decodes them.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken  = errors.New("no token")
	ErrNoUserID = errors.New("token carries no user id")
)

type Claims struct {
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry. Tokens without an
// expiry never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes token without verifying its signature.
func ParseClaims(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrNoToken
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}

	var c Claims
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}

	if sub, err := mc.GetSubject(); err == nil && sub != "" {
		c.UserID = sub
		return c, nil
	}
	for _, key := range []string{"id", "userId", "user_id"} {
		switch v := mc[key].(type) {
		case string:
			if v != "" {
				c.UserID = v
				return c, nil
			}
		case float64:
			c.UserID = fmt.Sprintf("%.0f", v)
			return c, nil
		}
	}
	return c, ErrNoUserID
}
