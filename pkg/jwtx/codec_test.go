package jwtx_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/ticketcheater/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var (
	accessKey  = []byte("access-key-0123456789abcdefghijklmnop")
	refreshKey = []byte("refresh-key-0123456789abcdefghijklmno")
	epoch      = time.Unix(1700000000, 0).UTC()
)

func fixedCodec(at time.Time) *jwtx.Codec {
	return jwtx.NewCodec().WithClock(func() time.Time { return at })
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()
	codec := fixedCodec(epoch)

	subjects := []string{"alice", "bob", "ünïcødé", "user@example.com", strings.Repeat("x", 256)}
	for _, subject := range subjects {
		for name, key := range map[string][]byte{"access": accessKey, "refresh": refreshKey} {
			t.Run(name+"/"+subject[:min(len(subject), 16)], func(t *testing.T) {
				token, err := codec.Sign(subject, time.Hour, key)
				require.NoError(t, err)
				require.Len(t, strings.Split(token, "."), 3)

				claims, err := codec.Parse(token, key)
				require.NoError(t, err)
				require.Equal(t, subject, claims.Subject)
				require.Equal(t, epoch, claims.IssuedAt.Time)
				require.Equal(t, epoch.Add(time.Hour), claims.ExpiresAtTime())
			})
		}
	}
}

func TestCodecSignRejectsBadInput(t *testing.T) {
	t.Parallel()
	codec := fixedCodec(epoch)

	t.Run("empty subject", func(t *testing.T) {
		_, err := codec.Sign("", time.Hour, accessKey)
		require.ErrorIs(t, err, jwtx.ErrEmptySubject)
	})

	t.Run("sub second ttl", func(t *testing.T) {
		_, err := codec.Sign("alice", 999*time.Millisecond, accessKey)
		require.ErrorIs(t, err, jwtx.ErrInvalidTTL)
	})

	t.Run("negative ttl", func(t *testing.T) {
		_, err := codec.Sign("alice", -time.Hour, accessKey)
		require.ErrorIs(t, err, jwtx.ErrInvalidTTL)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := codec.Sign("alice", time.Hour, nil)
		require.ErrorIs(t, err, jwtx.ErrEmptyKey)
	})
}

func TestCodecSameSecondTokensDiffer(t *testing.T) {
	t.Parallel()
	codec := fixedCodec(epoch)

	a, err := codec.Sign("alice", time.Hour, accessKey)
	require.NoError(t, err)
	b, err := codec.Sign("alice", time.Hour, accessKey)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestCodecTamperedSignature(t *testing.T) {
	t.Parallel()
	codec := fixedCodec(epoch)

	token, err := codec.Sign("alice", time.Hour, accessKey)
	require.NoError(t, err)

	dot := strings.LastIndex(token, ".")
	sig := token[dot+1:]
	require.NotEmpty(t, sig)

	for i := range len(sig) {
		replacement := byte('A')
		if sig[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:dot+1] + sig[:i] + string(replacement) + sig[i+1:]

		_, err := codec.Parse(tampered, accessKey)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature, "signature byte %d", i)
	}
}

func TestCodecWrongKey(t *testing.T) {
	t.Parallel()
	codec := fixedCodec(epoch)

	token, err := codec.Sign("alice", time.Hour, refreshKey)
	require.NoError(t, err)

	_, err = codec.Parse(token, accessKey)
	require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
}

func TestCodecWrongAlgorithm(t *testing.T) {
	t.Parallel()

	claims := jwtx.NewClaims("alice", time.Hour, epoch)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(accessKey)
	require.NoError(t, err)

	_, err = fixedCodec(epoch).Parse(token, accessKey)
	require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
}

func TestCodecMalformed(t *testing.T) {
	t.Parallel()
	codec := fixedCodec(epoch)

	valid, err := codec.Sign("alice", time.Hour, accessKey)
	require.NoError(t, err)
	parts := strings.Split(valid, ".")

	enc := base64.RawURLEncoding.EncodeToString
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtx.Claims{}).SignedString(accessKey)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", parts[0] + "." + parts[1]},
		{"four segments", valid + ".extra"},
		{"header not base64", "!!!." + parts[1] + "." + parts[2]},
		{"payload not json", parts[0] + "." + enc([]byte("not json")) + "." + parts[2]},
		{"header not json", enc([]byte("{")) + "." + parts[1] + "." + parts[2]},
		{"unknown alg", enc([]byte(`{"alg":"XX256","typ":"JWT"}`)) + "." + parts[1] + "." + parts[2]},
		{"exp wrong type", parts[0] + "." + enc([]byte(`{"sub":"alice","exp":"soon"}`)) + "." + parts[2]},
		{"missing subject", noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Parse(tt.token, accessKey)
			require.ErrorIs(t, err, jwtx.ErrMalformed)
			require.NotErrorIs(t, err, jwtx.ErrInvalidSignature)
		})
	}
}

func TestCodecParseIgnoresExpiry(t *testing.T) {
	t.Parallel()

	token, err := fixedCodec(epoch).Sign("alice", time.Second, accessKey)
	require.NoError(t, err)

	claims, err := fixedCodec(epoch.Add(24*time.Hour)).Parse(token, accessKey)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
}
