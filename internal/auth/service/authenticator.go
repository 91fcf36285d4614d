package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/metrics"
	"github.com/aussiebroadwan/ticketcheater/pkg/jwtx"
	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
)

// Authenticator turns a bearer access token into a Principal.
type Authenticator struct {
	Codec   *jwtx.Codec
	Keys    jwtx.KeyConfig
	Users   UserLookup
	Metrics *metrics.Metrics
}

// Authenticate verifies token with the access key, rejects it once expired and
// resolves its subject through Users.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	return a.authenticate(ctx, token, false)
}

// AuthenticateAllowExpired is Authenticate without the expiry check. The
// signature must still verify, so the subject can be trusted. Only the
// reissue route uses it.
func (a *Authenticator) AuthenticateAllowExpired(ctx context.Context, token string) (domain.Principal, error) {
	return a.authenticate(ctx, token, true)
}

func (a *Authenticator) authenticate(ctx context.Context, token string, allowExpired bool) (domain.Principal, error) {
	if token == "" {
		a.Metrics.AuthnFailed("missing")
		return domain.Principal{}, ErrUnauthenticated
	}

	claims, err := a.Codec.Parse(token, a.Keys.AccessKey())
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrInvalidSignature):
			a.Metrics.AuthnFailed("invalid_signature")
		default:
			a.Metrics.AuthnFailed("malformed")
		}
		return domain.Principal{}, err
	}

	if !allowExpired && jwtx.NewValidator(a.Codec).Expired(claims) {
		a.Metrics.AuthnFailed("expired")
		return domain.Principal{}, ErrExpiredToken
	}

	p, ok, err := a.Users.LookupPrincipal(ctx, claims.Subject)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("lookup principal: %w", err)
	}
	if !ok {
		slogx.FromContext(ctx).Info("token subject not found", slog.String("subject", claims.Subject))
		a.Metrics.AuthnFailed("unknown_subject")
		return domain.Principal{}, ErrInvalidToken
	}

	return p, nil
}
