package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/metrics"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store"
	"github.com/aussiebroadwan/ticketcheater/pkg/cryptox"
	"github.com/aussiebroadwan/ticketcheater/pkg/jwtx"
	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
)

// Reissue exchanges a refresh token for a new access token.
//
// subject comes from the authenticated request. The refresh token must be
// the one currently cached for subject and must carry a valid refresh key
// signature for that subject. Its own exp claim is not consulted: the cache
// TTL decides when a session ends.
//
//   - no cache entry: ErrExpiredToken
//   - undecodable or forged token: jwtx.ErrMalformed / jwtx.ErrInvalidSignature
//   - subject differs, or token is not the cached one: ErrInvalidToken
//
// The refresh token is not rotated.
func (s *TokenService) Reissue(ctx context.Context, subject, refreshToken string) (string, error) {
	l := slogx.FromContext(ctx).With(
		slog.String("subject", subject),
		slog.String("token_fp", cryptox.FingerprintToken(refreshToken)),
	)

	cached, err := s.Cache.GetRefreshToken(ctx, subject)
	switch {
	case errors.Is(err, store.ErrCacheMiss):
		l.Info("reissue rejected: no live session")
		s.Metrics.Reissued(metrics.ReissueNoCacheEntry)
		return "", ErrExpiredToken
	case err != nil:
		l.Error("reissue failed: cache lookup", slog.Any("error", err))
		s.Metrics.Reissued(metrics.ReissueError)
		return "", fmt.Errorf("lookup refresh token: %w", err)
	}

	// Signature and subject only; liveness was settled by the cache above.
	matches, err := jwtx.NewValidator(s.Codec).SubjectMatches(refreshToken, s.Keys.RefreshKey(), subject)
	if err != nil {
		l.Info("reissue rejected: bad refresh token", slog.Any("error", err))
		s.Metrics.Reissued(metrics.ReissueBadToken)
		return "", err
	}

	if !matches || subtle.ConstantTimeCompare([]byte(refreshToken), []byte(cached)) != 1 {
		l.Info("reissue rejected: refresh token does not match session")
		s.Metrics.Reissued(metrics.ReissueMismatch)
		return "", ErrInvalidToken
	}

	access, err := s.IssueAccessToken(ctx, subject)
	if err != nil {
		s.Metrics.Reissued(metrics.ReissueError)
		return "", err
	}

	l.Info("access token reissued")
	s.Metrics.Reissued(metrics.ReissueSuccess)
	return access, nil
}
