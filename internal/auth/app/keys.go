package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/ticketcheater/pkg/cryptox"
	"github.com/aussiebroadwan/ticketcheater/pkg/jwtx"
)

// InitKeys builds the immutable signing configuration.
//
// In dev a missing key is replaced with a random one for the lifetime of the
// process, so every restart invalidates outstanding tokens. Any other
// environment refuses to start without both keys.
func InitKeys(cfg Config, logger *slog.Logger) (jwtx.KeyConfig, error) {
	access, err := resolveKey(cfg, "ACCESS_SIGNING_KEY", cfg.AccessSigningKey, logger)
	if err != nil {
		return jwtx.KeyConfig{}, err
	}
	refresh, err := resolveKey(cfg, "REFRESH_SIGNING_KEY", cfg.RefreshSigningKey, logger)
	if err != nil {
		return jwtx.KeyConfig{}, err
	}

	keys, err := jwtx.NewKeyConfig([]byte(access), []byte(refresh), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return jwtx.KeyConfig{}, fmt.Errorf("invalid signing configuration: %w", err)
	}

	logger.Info("signing keys loaded",
		"access_ttl", keys.AccessTTL(),
		"refresh_ttl", keys.RefreshTTL(),
	)
	return keys, nil
}

func resolveKey(cfg Config, name, value string, logger *slog.Logger) (string, error) {
	if value != "" {
		return value, nil
	}
	if cfg.Env != "dev" {
		return "", fmt.Errorf("%s is required when ENV=%s", name, cfg.Env)
	}

	generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", name, err)
	}
	logger.Warn("signing key not configured, generated an ephemeral one", "key", name)
	return generated, nil
}
