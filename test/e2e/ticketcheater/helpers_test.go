//go:build e2e

package ticketcheater_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/app"
)

/*
 * End-to-end tests run the whole application in process against a real
 * Redis started with testcontainers. Run with: go test -tags e2e ./test/e2e/...
 */

const (
	redisImage = "redis:7-alpine"

	adminUsername = "admin"
	adminPassword = "Admin123!"
)

var redisAddr string

// TestMain starts one Redis container for the whole package.
func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        redisImage,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start redis: %v\n", err)
		os.Exit(1)
	}

	host, err := container.Host(ctx)
	if err == nil {
		var port string
		if mapped, perr := container.MappedPort(ctx, "6379"); perr == nil {
			port = mapped.Port()
		} else {
			err = perr
		}
		redisAddr = fmt.Sprintf("%s:%s", host, port)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve redis address: %v\n", err)
		_ = container.Terminate(ctx)
		os.Exit(1)
	}

	exitCode := m.Run()

	if err := container.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to terminate redis: %v\n", err)
	}
	os.Exit(exitCode)
}

// redisClient is a direct connection for inspecting what the service wrote.
func redisClient(t *testing.T) *goredis.Client {
	t.Helper()
	c := goredis.NewClient(&goredis.Options{Addr: redisAddr})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// startService boots a fresh application with its own database on an empty
// Redis and returns its base URL.
func startService(t *testing.T, accessTTL time.Duration) string {
	t.Helper()

	require.NoError(t, redisClient(t).FlushDB(t.Context()).Err())

	dir := t.TempDir()
	application, err := app.New(app.Config{
		AccessSigningKey:    "e2e-access-key-e2e-access-key-e2e",
		RefreshSigningKey:   "e2e-refresh-key-e2e-refresh-key-e2",
		AccessTokenTTL:      accessTTL,
		RefreshTokenTTL:     time.Hour,
		RedisAddr:           redisAddr,
		CacheTimeout:        2 * time.Second,
		UserCacheTTL:        time.Minute,
		DatabaseFile:        filepath.Join(dir, "ticketcheater.db"),
		PepperFile:          filepath.Join(dir, "pepper"),
		AdminUsername:       adminUsername,
		AdminPassword:       adminPassword,
		Env:                 "test",
		LogLevel:            "warn",
		LogFormat:           "json",
		ShutdownGracePeriod: time.Second,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

type envelope struct {
	ResultCode string          `json:"resultCode"`
	Result     json.RawMessage `json:"result"`
}

type tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// call performs a JSON request and decodes the envelope.
func call(t *testing.T, method, url, bearer string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequestWithContext(t.Context(), method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func signupAndLogin(t *testing.T, baseURL, username string) tokens {
	t.Helper()

	status, env := call(t, http.MethodPost, baseURL+"/users/signup", "", map[string]string{
		"username": username,
		"password": "correct horse",
	})
	require.Equal(t, http.StatusOK, status, env.ResultCode)

	return login(t, baseURL, username, "correct horse")
}

func login(t *testing.T, baseURL, username, password string) tokens {
	t.Helper()

	status, env := call(t, http.MethodPost, baseURL+"/users/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, env.ResultCode)

	var tk tokens
	require.NoError(t, json.Unmarshal(env.Result, &tk))
	return tk
}
