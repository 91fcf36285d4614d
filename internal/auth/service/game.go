package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store"
	"github.com/aussiebroadwan/ticketcheater/pkg/idx"
	"github.com/aussiebroadwan/ticketcheater/pkg/slogx"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 50
)

type GameService struct {
	Store store.Store
}

// GameInput carries the mutable fields of a game. Category is parsed case
// insensitively.
type GameInput struct {
	Category  string
	Title     string
	Home      string
	Away      string
	Place     string
	StartedAt time.Time
}

func (in GameInput) toGame() (domain.Game, error) {
	cat, err := domain.ParseCategory(in.Category)
	if err != nil {
		return domain.Game{}, ErrCategoryNotFound
	}

	g := domain.Game{
		Category:  cat,
		Title:     strings.TrimSpace(in.Title),
		Home:      strings.TrimSpace(in.Home),
		Away:      strings.TrimSpace(in.Away),
		Place:     strings.TrimSpace(in.Place),
		StartedAt: in.StartedAt.UTC(),
	}
	if g.Title == "" || g.Home == "" || g.Away == "" || g.Place == "" {
		return domain.Game{}, fmt.Errorf("%w: title, home, away and place are required", ErrInvalidRequest)
	}
	if g.StartedAt.IsZero() {
		return domain.Game{}, fmt.Errorf("%w: startedAt is required", ErrInvalidRequest)
	}
	return g, nil
}

func requireWrite(p domain.Principal) error {
	if !p.Can(domain.CapGamesWrite) {
		return ErrInvalidPermission
	}
	return nil
}

// Create opens a new game. Only principals with games:write may call it.
func (s *GameService) Create(ctx context.Context, p domain.Principal, in GameInput) (domain.Game, error) {
	if err := requireWrite(p); err != nil {
		return domain.Game{}, err
	}

	g, err := in.toGame()
	if err != nil {
		return domain.Game{}, err
	}
	g.ID = idx.New().String()

	if err := s.Store.Games().CreateGame(ctx, g); err != nil {
		return domain.Game{}, fmt.Errorf("create game: %w", err)
	}

	slogx.FromContext(ctx).Info("game created",
		slog.String("game_id", g.ID),
		slog.String("category", string(g.Category)),
		slog.String("by", p.Subject),
	)
	return g, nil
}

// Update overwrites every mutable field of game id.
func (s *GameService) Update(ctx context.Context, p domain.Principal, id string, in GameInput) error {
	if err := requireWrite(p); err != nil {
		return err
	}

	// Ids are minted by idx; anything else cannot name a game.
	if _, err := idx.Parse(id); err != nil {
		return ErrGameNotFound
	}

	g, err := in.toGame()
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Games().GetGameByID(ctx, id); err != nil {
			return err
		}
		g.ID = id
		return tx.Games().UpdateGame(ctx, g)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrGameNotFound
	}
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}

	slogx.FromContext(ctx).Info("game updated", slog.String("game_id", id), slog.String("by", p.Subject))
	return nil
}

// List pages through every game ordered by start time.
func (s *GameService) List(ctx context.Context, page, size int) (domain.Page[domain.Game], error) {
	page, size, err := normalizePage(page, size)
	if err != nil {
		return domain.Page[domain.Game]{}, err
	}
	return s.Store.Games().ListGames(ctx, nil, page, size)
}

// ListByCategory is List restricted to one category.
func (s *GameService) ListByCategory(ctx context.Context, category string, page, size int) (domain.Page[domain.Game], error) {
	cat, err := domain.ParseCategory(category)
	if err != nil {
		return domain.Page[domain.Game]{}, ErrCategoryNotFound
	}

	page, size, err = normalizePage(page, size)
	if err != nil {
		return domain.Page[domain.Game]{}, err
	}
	return s.Store.Games().ListGames(ctx, &cat, page, size)
}

// normalizePage clamps size into [1, MaxPageSize] and a negative page to 0.
// Pages whose offset would not fit in an int are rejected.
func normalizePage(page, size int) (int, int, error) {
	if page < 0 {
		page = 0
	}
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	if page > math.MaxInt/size {
		return 0, 0, fmt.Errorf("%w: page %d is out of range", ErrInvalidRequest, page)
	}
	return page, size, nil
}
