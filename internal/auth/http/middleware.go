package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/service"
	"github.com/aussiebroadwan/ticketcheater/pkg/httpx"
	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	ctx = context.WithValue(ctx, principalKey{}, p)
	return httpx.WithSubject(ctx, p.Subject)
}

// PrincipalFromContext returns the principal attached by AuthnMiddleware.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// AuthnMiddleware authenticates the bearer token. On failure the request
// ends with an error envelope and next is not called.
func AuthnMiddleware(a *service.Authenticator) httpx.Middleware {
	return authn(a.Authenticate)
}

// AuthnAllowExpiredMiddleware is AuthnMiddleware for the reissue route: an
// expired but otherwise valid access token is accepted.
func AuthnAllowExpiredMiddleware(a *service.Authenticator) httpx.Middleware {
	return authn(a.AuthenticateAllowExpired)
}

func authn(authenticate func(context.Context, string) (domain.Principal, error)) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _ := httpx.BearerToken(r)

			p, err := authenticate(r.Context(), token)
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := withPrincipal(r.Context(), p)
			ctx = slogx.With(ctx, "subject", p.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects principals lacking capability with
// INVALID_PERMISSION. It must run after AuthnMiddleware.
func RequireCapability(capability string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, r, service.ErrUnauthenticated)
				return
			}
			if !p.Can(capability) {
				writeError(w, r, service.ErrInvalidPermission)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
