package jwtx

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"
)

// MinKeyLength is the shortest HMAC key accepted, matching the SHA-256 block
// output size.
const MinKeyLength = 32

var (
	ErrWeakKey   = errors.New("jwtx: signing key too short")
	ErrSameKeys  = errors.New("jwtx: access and refresh keys must differ")
	ErrTTLOrder  = errors.New("jwtx: refresh ttl must exceed access ttl")
	errNilConfig = errors.New("jwtx: key config not initialised")
)

// KeyConfig holds the two HMAC keys and lifetimes. It is built once at
// startup and handed to whoever needs it. Fields are unexported and the key
// accessors hand out copies so nothing downstream can mutate key material.
type KeyConfig struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewKeyConfig validates and captures the key material.
func NewKeyConfig(accessKey, refreshKey []byte, accessTTL, refreshTTL time.Duration) (KeyConfig, error) {
	cfg := KeyConfig{
		accessKey:  bytes.Clone(accessKey),
		refreshKey: bytes.Clone(refreshKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
	if err := cfg.Validate(); err != nil {
		return KeyConfig{}, err
	}
	return cfg, nil
}

// Validate checks key strength, key separation and TTL sanity.
func (k KeyConfig) Validate() error {
	if k.accessKey == nil && k.refreshKey == nil {
		return errNilConfig
	}
	if len(k.accessKey) < MinKeyLength {
		return fmt.Errorf("%w: access key has %d bytes, need %d", ErrWeakKey, len(k.accessKey), MinKeyLength)
	}
	if len(k.refreshKey) < MinKeyLength {
		return fmt.Errorf("%w: refresh key has %d bytes, need %d", ErrWeakKey, len(k.refreshKey), MinKeyLength)
	}
	if subtle.ConstantTimeCompare(k.accessKey, k.refreshKey) == 1 {
		return ErrSameKeys
	}
	if k.accessTTL < MinTTL || k.refreshTTL < MinTTL {
		return ErrInvalidTTL
	}
	if k.refreshTTL <= k.accessTTL {
		return ErrTTLOrder
	}
	return nil
}

// AccessKey returns a copy of the key that signs access tokens.
func (k KeyConfig) AccessKey() []byte { return bytes.Clone(k.accessKey) }

// RefreshKey returns a copy of the key that signs refresh tokens.
func (k KeyConfig) RefreshKey() []byte { return bytes.Clone(k.refreshKey) }

// AccessTTL is the lifetime of a freshly issued access token.
func (k KeyConfig) AccessTTL() time.Duration { return k.accessTTL }

// RefreshTTL is the lifetime of a refresh token and of its cache entry.
func (k KeyConfig) RefreshTTL() time.Duration { return k.refreshTTL }
