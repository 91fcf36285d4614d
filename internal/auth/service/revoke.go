package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
)

// Revoke ends the session of subject by dropping its cached refresh token.
// Revoking a subject with no session succeeds. Access tokens already handed
// out stay valid until they expire.
func (s *TokenService) Revoke(ctx context.Context, subject string) error {
	if err := s.Cache.DeleteRefreshToken(ctx, subject); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	slogx.FromContext(ctx).Info("refresh token revoked", slog.String("subject", subject))
	s.Metrics.Revoked()
	return nil
}
