package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrCacheMiss means the key is absent or its TTL lapsed.
	ErrCacheMiss = errors.New("store: cache miss")

	// ErrCacheUnavailable wraps any cache failure that is not a miss:
	// connection refused, timeout, protocol error. It is never an auth
	// decision.
	ErrCacheUnavailable = errors.New("store: cache unavailable")
)

// Store is the relational side: users and games. Drivers expose the
// repositories as methods so a Tx can hand out the same repositories bound to
// the transaction.
type Store interface {
	Users() Users
	Games() Games

	ApplyMigrations() error

	// WithTx runs fn inside a transaction, committing when fn returns nil and
	// rolling back otherwise. Repositories obtained from tx must not be used
	// after fn returns.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a Store bound to an open transaction.
type Tx interface {
	Users() Users
	Games() Games
}

type Users interface {
	// GetUserByUsername returns ErrNotFound for unknown or soft deleted users.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error
}

type Games interface {
	CreateGame(ctx context.Context, g domain.Game) error

	// GetGameByID returns ErrNotFound for unknown or soft deleted games.
	GetGameByID(ctx context.Context, id string) (domain.Game, error)

	// UpdateGame overwrites the mutable fields and bumps updated_at.
	UpdateGame(ctx context.Context, g domain.Game) error

	// ListGames pages through live games ordered by started_at ascending. A
	// nil category lists everything.
	ListGames(ctx context.Context, category *domain.Category, page, size int) (domain.Page[domain.Game], error)
}

// TokenCache holds the one live refresh token per subject. It is the only
// server side session state.
type TokenCache interface {
	// SetRefreshToken stores token for subject, replacing any previous
	// value atomically, expiring after ttl.
	SetRefreshToken(ctx context.Context, subject, token string, ttl time.Duration) error

	// GetRefreshToken returns ErrCacheMiss when nothing is stored.
	GetRefreshToken(ctx context.Context, subject string) (string, error)

	// DeleteRefreshToken is idempotent.
	DeleteRefreshToken(ctx context.Context, subject string) error

	Ping(ctx context.Context) error
}

// UserCache is a read-through cache in front of Users.
type UserCache interface {
	// GetUser returns ErrCacheMiss when nothing is stored.
	GetUser(ctx context.Context, username string) (domain.User, error)
	SetUser(ctx context.Context, u domain.User, ttl time.Duration) error

	// DeleteUser is idempotent.
	DeleteUser(ctx context.Context, username string) error
}
