package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, password_hash, email, nickname, role, created_at, updated_at, removed_at`

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? AND removed_at IS NULL`,
		username,
	)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	ts := now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = ts
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = ts
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Username,
		u.PasswordHash,
		u.Email,
		u.Nickname,
		string(u.Role),
		toMillis(u.CreatedAt),
		toMillis(u.UpdatedAt),
		toNullMillis(u.RemovedAt),
	)
	return mapConstraint(err)
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u                domain.User
		role             string
		created, updated int64
		removed          sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Nickname, &role, &created, &updated, &removed); err != nil {
		return domain.User{}, err
	}

	r, err := domain.ParseRole(role)
	if err != nil {
		return domain.User{}, fmt.Errorf("user %s: %w", u.Username, err)
	}
	u.Role = r
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	u.RemovedAt = fromNullMillis(removed)
	return u, nil
}
