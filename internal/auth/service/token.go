package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/metrics"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store"
	"github.com/aussiebroadwan/ticketcheater/pkg/cryptox"
	"github.com/aussiebroadwan/ticketcheater/pkg/jwtx"
	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
)

// TokenService issues, reissues and revokes session tokens. The refresh token
// cache is the only session state; the signed tokens carry everything else.
type TokenService struct {
	Codec   *jwtx.Codec
	Keys    jwtx.KeyConfig
	Cache   store.TokenCache
	Metrics *metrics.Metrics
}

// IssueAccessToken signs a short lived access token for subject. Nothing is
// stored.
func (s *TokenService) IssueAccessToken(ctx context.Context, subject string) (string, error) {
	token, err := s.Codec.Sign(subject, s.Keys.AccessTTL(), s.Keys.AccessKey())
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	s.Metrics.TokenIssued(metrics.TokenAccess)
	return token, nil
}

// IssueRefreshToken signs a refresh token for subject and stores it in the
// cache, replacing any token issued earlier for the same subject.
func (s *TokenService) IssueRefreshToken(ctx context.Context, subject string) (string, error) {
	token, err := s.Codec.Sign(subject, s.Keys.RefreshTTL(), s.Keys.RefreshKey())
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.Cache.SetRefreshToken(ctx, subject, token, s.Keys.RefreshTTL()); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}

	slogx.FromContext(ctx).Debug("refresh token cached",
		slog.String("subject", subject),
		slog.String("token_fp", cryptox.FingerprintToken(token)),
	)
	s.Metrics.TokenIssued(metrics.TokenRefresh)
	return token, nil
}

// IssuePair issues both tokens. The refresh token is cached before the access
// token is signed, so a failed cache write yields no usable pair.
func (s *TokenService) IssuePair(ctx context.Context, subject string) (domain.TokenPair, error) {
	refresh, err := s.IssueRefreshToken(ctx, subject)
	if err != nil {
		return domain.TokenPair{}, err
	}

	access, err := s.IssueAccessToken(ctx, subject)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
