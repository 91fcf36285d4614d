package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/service"
	"github.com/aussiebroadwan/ticketcheater/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signup(t, "alice")

	pair, err := e.users.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)

	p, err := e.authn.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", p.Subject)
	require.Equal(t, domain.RoleUser, p.Role)
	require.True(t, p.Can(domain.CapGamesRead))
	require.False(t, p.Can(domain.CapGamesWrite))
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signup(t, "alice")

	pair, err := e.users.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)

	ghost, err := e.tokens.IssueAccessToken(ctx, "ghost")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", service.ErrUnauthenticated},
		{"garbage", "a.b", jwtx.ErrMalformed},
		{"refresh token", pair.RefreshToken, jwtx.ErrInvalidSignature},
		{"unknown subject", ghost, service.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.authn.Authenticate(ctx, tt.token)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	require.Equal(t, 1.0, e.counter(t, "ticketcheater_authn_failures_total", "reason", "unknown_subject"))
}

func TestAuthenticateExpiry(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signup(t, "alice")

	token, err := e.tokens.IssueAccessToken(ctx, "alice")
	require.NoError(t, err)

	e.clock.Advance(accessTTL - time.Millisecond)
	_, err = e.authn.Authenticate(ctx, token)
	require.NoError(t, err)

	e.clock.Advance(time.Millisecond)
	_, err = e.authn.Authenticate(ctx, token)
	require.ErrorIs(t, err, service.ErrExpiredToken)

	// The reissue route still learns who is asking.
	p, err := e.authn.AuthenticateAllowExpired(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", p.Subject)

	// But never from a forged token.
	forged, err := jwtx.NewCodec().Sign("alice", time.Minute, []byte("some-other-key-some-other-key-!!"))
	require.NoError(t, err)
	_, err = e.authn.AuthenticateAllowExpired(ctx, forged)
	require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
}

type stubLookup struct {
	err error
}

func (s stubLookup) LookupPrincipal(context.Context, string) (domain.Principal, bool, error) {
	return domain.Principal{}, false, s.err
}

func TestAuthenticateLookupError(t *testing.T) {
	e := newEnv(t)

	token, err := e.tokens.IssueAccessToken(context.Background(), "alice")
	require.NoError(t, err)

	boom := errors.New("db down")
	a := &service.Authenticator{Codec: e.codec, Keys: e.keys, Users: stubLookup{err: boom}}

	_, err = a.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, service.ErrInvalidToken)
}
