package service_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/service"
	"github.com/aussiebroadwan/ticketcheater/pkg/idx"
	"github.com/stretchr/testify/require"
)

var (
	admin = domain.User{Username: "admin", Role: domain.RoleAdmin}.Principal()
	fan   = domain.User{Username: "fan", Role: domain.RoleUser}.Principal()
)

func gameInput(category string, start time.Time) service.GameInput {
	return service.GameInput{
		Category:  category,
		Title:     "Derby",
		Home:      "Reds",
		Away:      "Blues",
		Place:     "Main Stadium",
		StartedAt: start,
	}
}

func TestCreateGame(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

	_, err := e.games.Create(ctx, fan, gameInput("soccer", start))
	require.ErrorIs(t, err, service.ErrInvalidPermission)

	_, err = e.games.Create(ctx, admin, gameInput("cricket", start))
	require.ErrorIs(t, err, service.ErrCategoryNotFound)

	in := gameInput("soccer", start)
	in.Title = " "
	_, err = e.games.Create(ctx, admin, in)
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = e.games.Create(ctx, admin, gameInput("soccer", time.Time{}))
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	g, err := e.games.Create(ctx, admin, gameInput("soccer", start))
	require.NoError(t, err)
	require.Equal(t, domain.CategorySoccer, g.Category)
	require.NotEmpty(t, g.ID)
}

func TestUpdateGame(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	g, err := e.games.Create(ctx, admin, gameInput("soccer", start))
	require.NoError(t, err)

	in := gameInput("E_SPORTS", start.Add(time.Hour))
	in.Title = "Finals"

	require.ErrorIs(t, e.games.Update(ctx, fan, g.ID, in), service.ErrInvalidPermission)
	require.ErrorIs(t, e.games.Update(ctx, admin, "missing", in), service.ErrGameNotFound)
	require.ErrorIs(t, e.games.Update(ctx, admin, idx.New().String(), in), service.ErrGameNotFound)
	require.NoError(t, e.games.Update(ctx, admin, g.ID, in))

	page, err := e.games.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Finals", page.Items[0].Title)
	require.Equal(t, domain.CategoryESports, page.Items[0].Category)
	require.Equal(t, start.Add(time.Hour), page.Items[0].StartedAt)
}

func TestListGames(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	for i := range 7 {
		cat := "baseball"
		if i < 3 {
			cat = "basketball"
		}
		_, err := e.games.Create(ctx, admin, gameInput(cat, start.Add(-time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	page, err := e.games.List(ctx, -1, 0)
	require.NoError(t, err)
	require.Equal(t, 0, page.Page)
	require.Equal(t, service.DefaultPageSize, page.Size)
	require.Len(t, page.Items, service.DefaultPageSize)
	require.Equal(t, 7, page.TotalItems)
	for i := 1; i < len(page.Items); i++ {
		require.False(t, page.Items[i].StartedAt.Before(page.Items[i-1].StartedAt))
	}

	page, err = e.games.List(ctx, 0, 1000)
	require.NoError(t, err)
	require.Equal(t, service.MaxPageSize, page.Size)

	page, err = e.games.ListByCategory(ctx, "Basketball", 0, 10)
	require.NoError(t, err)
	require.Equal(t, 3, page.TotalItems)

	_, err = e.games.ListByCategory(ctx, "curling", 0, 10)
	require.ErrorIs(t, err, service.ErrCategoryNotFound)
}

func TestListGamesRejectsOverflowingPage(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.games.List(ctx, math.MaxInt, 10)
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = e.games.ListByCategory(ctx, "soccer", math.MaxInt/service.DefaultPageSize+1, 0)
	require.ErrorIs(t, err, service.ErrInvalidRequest)

	// The last page whose offset still fits is served, empty.
	page, err := e.games.List(ctx, math.MaxInt/service.MaxPageSize, service.MaxPageSize)
	require.NoError(t, err)
	require.Empty(t, page.Items)
}
