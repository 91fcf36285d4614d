package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/ticketcheater/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newUser(username string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		Email:        username + "@example.com",
		Nickname:     username,
		Role:         domain.RoleUser,
	}
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Users().GetUserByUsername(ctx, "alice")
	require.ErrorIs(t, err, store.ErrNotFound)

	u := newUser("alice")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
	require.Equal(t, domain.RoleUser, got.Role)
	require.False(t, got.CreatedAt.IsZero())
	require.Nil(t, got.RemovedAt)

	dup := newUser("alice")
	err = s.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersSoftDeletedAreHidden(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := newUser("ghost")
	removed := time.Now()
	u.RemovedAt = &removed
	require.NoError(t, s.Users().CreateUser(ctx, u))

	_, err := s.Users().GetUserByUsername(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, newUser("bob")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByUsername(ctx, "bob")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, newUser("bob"))
	})
	require.NoError(t, err)

	_, err = s.Users().GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
}

func TestGames(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of order so the listing has to sort.
	for i := 6; i >= 0; i-- {
		cat := domain.CategorySoccer
		if i%2 == 1 {
			cat = domain.CategoryBaseball
		}
		require.NoError(t, s.Games().CreateGame(ctx, domain.Game{
			ID:        fmt.Sprintf("game-%d", i),
			Category:  cat,
			Title:     fmt.Sprintf("Match %d", i),
			Home:      "Home",
			Away:      "Away",
			Place:     "Stadium",
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	page, err := s.Games().ListGames(ctx, nil, 0, 5)
	require.NoError(t, err)
	require.Equal(t, 7, page.TotalItems)
	require.Len(t, page.Items, 5)
	require.Equal(t, "game-0", page.Items[0].ID)
	require.Equal(t, "game-4", page.Items[4].ID)

	page, err = s.Games().ListGames(ctx, nil, 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, 2, page.TotalPages())

	soccer := domain.CategorySoccer
	page, err = s.Games().ListGames(ctx, &soccer, 0, 5)
	require.NoError(t, err)
	require.Equal(t, 4, page.TotalItems)
	for _, g := range page.Items {
		require.Equal(t, domain.CategorySoccer, g.Category)
	}

	g, err := s.Games().GetGameByID(ctx, "game-3")
	require.NoError(t, err)
	require.Equal(t, base.Add(3*time.Hour), g.StartedAt)

	g.Title = "Rescheduled"
	g.StartedAt = base.Add(48 * time.Hour)
	require.NoError(t, s.Games().UpdateGame(ctx, g))

	g, err = s.Games().GetGameByID(ctx, "game-3")
	require.NoError(t, err)
	require.Equal(t, "Rescheduled", g.Title)
	require.Equal(t, base.Add(48*time.Hour), g.StartedAt)

	_, err = s.Games().GetGameByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Games().UpdateGame(ctx, domain.Game{ID: "missing", Category: domain.CategorySoccer})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListGamesEmpty(t *testing.T) {
	s := newStore(t)

	page, err := s.Games().ListGames(context.Background(), nil, 0, 5)
	require.NoError(t, err)
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
	require.Zero(t, page.TotalPages())
}
