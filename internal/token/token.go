// Package token decodes the bearer credential issued by the auth service.
//
// The credential is a JWT carrying the session expiry in its exp claim. The
// client holds no signing key, so the token is parsed without signature
// verification: the only question this package answers is whether a round
// trip with the credential is worth attempting at all.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed reports a credential that could not be decoded.
var ErrMalformed = errors.New("malformed credential")

var parser = jwt.NewParser()

// Decode extracts the expiry instant embedded in the credential.
func Decode(credential string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(credential, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrMalformed)
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the credential is expired at the given instant.
// A credential that cannot be decoded is treated as expired (fail closed).
func IsExpired(credential string, now time.Time) bool {
	expiry, err := Decode(credential)
	if err != nil {
		return true
	}
	return !now.Before(expiry)
}
