package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrInvalidSignature = errors.New("jwtx: invalid signature")

	ErrEmptySubject = errors.New("jwtx: empty subject")
	ErrInvalidTTL   = errors.New("jwtx: ttl must be at least one second")
	ErrEmptyKey     = errors.New("jwtx: empty signing key")
)

// Codec turns (subject, ttl, key) into a compact HS256 JWS and back. It does
// not judge expiry, that is the Validator's job.
type Codec struct {
	now func() time.Time
}

// NewCodec returns a codec stamping tokens with the wall clock.
func NewCodec() *Codec {
	return &Codec{now: time.Now}
}

// WithClock returns a copy of the codec that reads time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	return &Codec{now: now}
}

// Now returns the codec's current time in UTC.
func (c *Codec) Now() time.Time {
	return c.now().UTC()
}

// Sign produces a token for subject that expires ttl from now.
func (c *Codec) Sign(subject string, ttl time.Duration, key []byte) (string, error) {
	switch {
	case subject == "":
		return "", ErrEmptySubject
	case ttl < MinTTL:
		return "", ErrInvalidTTL
	case len(key) == 0:
		return "", ErrEmptyKey
	}

	claims := NewClaims(subject, ttl, c.Now())
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Parse verifies token's signature against key and returns its claims.
//
// ErrMalformed means the token could not be decoded into claims at all.
// ErrInvalidSignature means it decoded fine but key did not produce its
// signature, which includes a wrong algorithm header and a non canonical
// signature encoding.
func (c *Codec) Parse(token string, key []byte) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		return Claims{}, classify(token, err)
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return Claims{}, ErrMalformed
	}

	return claims, nil
}

// classify decides whether a parse failure happened before or after the
// header and payload were decoded.
func classify(token string, err error) error {
	parser := jwt.NewParser(jwt.WithStrictDecoding())
	if _, _, uerr := parser.ParseUnverified(token, &Claims{}); uerr != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, uerr)
	}
	return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
}
