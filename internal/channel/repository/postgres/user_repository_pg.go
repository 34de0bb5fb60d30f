package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

type PgUserRepository struct {
	db     DB
	logger *slog.Logger
}

func NewPgUserRepository(db DB, logger *slog.Logger) domain.UserRepository {
	return &PgUserRepository{db: db, logger: logger.With("component", "user_repository_pg")}
}

const userColumns = `id, firstname, mobile, active, created_at, updated_at`

func (r *PgUserRepository) FindByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE mobile = $1 ORDER BY updated_at DESC LIMIT 1`

	var u domain.User
	err := r.db.QueryRow(ctx, query, mobile).Scan(&u.ID, &u.Firstname, &u.Mobile, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user by mobile: %w", err)
	}
	return &u, nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u domain.User
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Firstname, &u.Mobile, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying user by id: %w", err)
	}
	return &u, nil
}

func (r *PgUserRepository) Create(ctx context.Context, actor domain.Actor, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (firstname, mobile, active, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, now(), now())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, user.Firstname, user.Mobile, user.Active, actor.UserID).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	r.logger.InfoContext(ctx, "Created user", "user_id", user.ID, "mobile", user.Mobile, "actor_id", actor.UserID)
	return user, nil
}
