package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store"
	"github.com/aussiebroadwan/ticketcheater/pkg/cryptox"
	"github.com/aussiebroadwan/ticketcheater/pkg/idx"
	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
)

const (
	DefaultUserCacheTTL = 24 * time.Hour

	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

type UserService struct {
	Store     store.Store
	Passwords PasswordVerifier
	Tokens    *TokenService

	// Cache is optional. Cache failures fall back to Store.
	Cache    store.UserCache
	CacheTTL time.Duration
}

var _ UserLookup = (*UserService)(nil)

type SignupInput struct {
	Username string
	Password string
	Email    string
	Nickname string
}

func (in *SignupInput) normalize() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Nickname = strings.TrimSpace(in.Nickname)

	if !usernamePattern.MatchString(in.Username) {
		return fmt.Errorf("%w: username must be 3-32 letters, digits, '.', '_' or '-'", ErrInvalidRequest)
	}
	if n := utf8.RuneCountInString(in.Password); n < MinPasswordLength || n > MaxPasswordLength {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidRequest, MinPasswordLength, MaxPasswordLength)
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return fmt.Errorf("%w: email is not valid", ErrInvalidRequest)
		}
	}
	if in.Nickname == "" {
		in.Nickname = in.Username
	}
	return nil
}

// Signup creates a USER account.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	if err := in.normalize(); err != nil {
		return domain.User{}, err
	}
	return s.createUser(ctx, in, domain.RoleUser)
}

func (s *UserService) createUser(ctx context.Context, in SignupInput, role domain.Role) (domain.User, error) {
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		Nickname:     in.Nickname,
		Role:         role,
		Timestamps:   domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicatedUsername
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	slogx.FromContext(ctx).Info("user created",
		slog.String("user_id", u.ID),
		slog.String("username", u.Username),
		slog.String("role", string(role)),
	)
	return u, nil
}

// Login checks the password and starts a new session, superseding any
// earlier session of the same user.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.findUser(ctx, strings.TrimSpace(username))
	if err != nil {
		return domain.TokenPair{}, err
	}

	if !s.Passwords.Verify(password, u.PasswordHash) {
		l.Info("login rejected: wrong password", slog.String("username", u.Username))
		return domain.TokenPair{}, ErrInvalidPassword
	}

	pair, err := s.Tokens.IssuePair(ctx, u.Username)
	if err != nil {
		return domain.TokenPair{}, err
	}

	l.Info("user logged in", slog.String("username", u.Username))
	return pair, nil
}

// Logout revokes the session of subject.
func (s *UserService) Logout(ctx context.Context, subject string) error {
	return s.Tokens.Revoke(ctx, subject)
}

// LookupPrincipal implements UserLookup.
func (s *UserService) LookupPrincipal(ctx context.Context, subject string) (domain.Principal, bool, error) {
	u, err := s.findUser(ctx, subject)
	if errors.Is(err, ErrUserNotFound) {
		return domain.Principal{}, false, nil
	}
	if err != nil {
		return domain.Principal{}, false, err
	}
	return u.Principal(), true, nil
}

// findUser reads through the user cache. Soft deleted users are not found.
func (s *UserService) findUser(ctx context.Context, username string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if s.Cache != nil {
		u, err := s.Cache.GetUser(ctx, username)
		switch {
		case err == nil:
			if role, rerr := domain.ParseRole(string(u.Role)); rerr == nil && !u.Removed() {
				u.Role = role
				return u, nil
			}
			// Removed or unknown role: drop the entry so the database decides.
			if err := s.Cache.DeleteUser(ctx, username); err != nil {
				l.Warn("user cache evict failed", slog.String("username", username), slog.Any("error", err))
			}
		case !errors.Is(err, store.ErrCacheMiss):
			l.Warn("user cache read failed", slog.String("username", username), slog.Any("error", err))
		}
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	if s.Cache != nil {
		ttl := s.CacheTTL
		if ttl <= 0 {
			ttl = DefaultUserCacheTTL
		}
		if err := s.Cache.SetUser(ctx, u, ttl); err != nil {
			l.Warn("user cache write failed", slog.String("username", username), slog.Any("error", err))
		}
	}
	return u, nil
}
