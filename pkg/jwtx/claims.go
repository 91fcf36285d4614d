package jwtx

import (
	"time"

	"github.com/aussiebroadwan/ticketcheater/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Both can be overridden through KeyConfig.
const (
	// DefaultAccessTokenTTL is short so a leaked access token is only useful
	// for a few minutes.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL bounds how long a login lasts without the user
	// typing their password again.
	DefaultRefreshTokenTTL = 14 * 24 * time.Hour
)

// MinTTL is the smallest lifetime a token can be minted with. exp and iat are
// NumericDates with one second precision, anything shorter would produce a
// token that is expired the moment it is issued.
const MinTTL = time.Second

// Claims carried by both access and refresh tokens. Which key signed the
// token is what tells the two apart.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims builds claims for subject valid for ttl starting at now. Every
// token gets a fresh jti so two tokens minted within the same second for the
// same subject never collide.
func NewClaims(subject string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewJTI returns a unique identifier for the "jti" claim.
func NewJTI() string {
	return idx.New().String()
}

// ExpiresAtTime returns the expiry instant or the zero time when absent.
func (c Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ExpiredAt reports whether the claims are expired at now. A token is valid
// on the half-open interval [iat, exp), so now == exp counts as expired.
func (c Claims) ExpiredAt(now time.Time) bool {
	exp := c.ExpiresAtTime()
	if exp.IsZero() {
		return true
	}
	return !now.Before(exp)
}
