// Package jwtx reads claims out of bearer tokens issued by the marketplace
// API. The frontend never verifies signatures: the API does that on every
// request. Claims are only used to decide how long a persisted token is
// worth keeping.
package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT reports a token that is opaque to the frontend.
var ErrNotJWT = errors.New("jwtx: token is not a JWT")

// Claims is the subset of access-token claims the frontend looks at.
type Claims struct {
	jwt.RegisteredClaims
}

// Inspect decodes raw without verifying its signature.
func Inspect(raw string) (Claims, error) {
	var claims Claims
	if strings.Count(raw, ".") != 2 {
		return claims, ErrNotJWT
	}

	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	return claims, nil
}

// ExpiresAt returns the token's exp claim. ok is false for opaque tokens
// and JWTs without exp; such tokens are kept until explicitly cleared.
func ExpiresAt(raw string) (exp time.Time, ok bool) {
	claims, err := Inspect(raw)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
