package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
	"github.com/aussiebroadwan/ticketcheater/internal/auth/store"
)

type gamesRepo struct {
	db dbtx
}

const gameColumns = `id, category, title, home, away, place, started_at, created_at, updated_at, removed_at`

func (r *gamesRepo) CreateGame(ctx context.Context, g domain.Game) error {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO games (`+gameColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		g.ID,
		string(g.Category),
		g.Title,
		g.Home,
		g.Away,
		g.Place,
		toMillis(g.StartedAt),
		toMillis(ts),
		toMillis(ts),
	)
	return mapConstraint(err)
}

func (r *gamesRepo) GetGameByID(ctx context.Context, id string) (domain.Game, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ? AND removed_at IS NULL`,
		id,
	)
	if err != nil {
		return domain.Game{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Game{}, err
		}
		return domain.Game{}, store.ErrNotFound
	}
	return scanGame(rows)
}

func (r *gamesRepo) UpdateGame(ctx context.Context, g domain.Game) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE games
		    SET category = ?, title = ?, home = ?, away = ?, place = ?, started_at = ?, updated_at = ?
		  WHERE id = ? AND removed_at IS NULL`,
		string(g.Category),
		g.Title,
		g.Home,
		g.Away,
		g.Place,
		toMillis(g.StartedAt),
		toMillis(now()),
		g.ID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *gamesRepo) ListGames(
	ctx context.Context,
	category *domain.Category,
	page, size int,
) (domain.Page[domain.Game], error) {
	where := `removed_at IS NULL`
	var args []any
	if category != nil {
		where += ` AND category = ?`
		args = append(args, string(*category))
	}

	out := domain.Page[domain.Game]{Page: page, Size: size, Items: []domain.Game{}}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games WHERE `+where, args...).Scan(&out.TotalItems); err != nil {
		return domain.Page[domain.Game]{}, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE `+where+` ORDER BY started_at ASC, id ASC LIMIT ? OFFSET ?`,
		append(args, size, page*size)...,
	)
	if err != nil {
		return domain.Page[domain.Game]{}, err
	}
	defer rows.Close()

	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return domain.Page[domain.Game]{}, err
		}
		out.Items = append(out.Items, g)
	}
	return out, rows.Err()
}

func scanGame(rows *sql.Rows) (domain.Game, error) {
	var (
		g                         domain.Game
		category                  string
		started, created, updated int64
		removed                   sql.NullInt64
	)
	if err := rows.Scan(&g.ID, &category, &g.Title, &g.Home, &g.Away, &g.Place, &started, &created, &updated, &removed); err != nil {
		return domain.Game{}, err
	}

	g.Category = domain.Category(category)
	g.StartedAt = fromMillis(started)
	g.CreatedAt = fromMillis(created)
	g.UpdatedAt = fromMillis(updated)
	g.RemovedAt = fromNullMillis(removed)
	return g, nil
}
