package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store"
	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
)

// EnsureAdmin creates an ADMIN account named username unless a user with that
// name already exists. It reports whether an account was created.
//
// An existing account is left untouched even when it is not an admin.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	l := slogx.FromContext(ctx)

	existing, err := s.Store.Users().GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			l.Warn("admin bootstrap skipped: username taken by non-admin", slog.String("username", username))
		}
		return false, nil
	case !errors.Is(err, store.ErrNotFound):
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	in := SignupInput{Username: username, Password: password}
	if err := in.normalize(); err != nil {
		return false, err
	}

	if _, err := s.createUser(ctx, in, domain.RoleAdmin); err != nil {
		if errors.Is(err, ErrDuplicatedUsername) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
