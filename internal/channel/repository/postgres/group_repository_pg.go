package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

type PgGroupRepository struct {
	db     DB
	logger *slog.Logger
}

func NewPgGroupRepository(db DB, logger *slog.Logger) domain.GroupRepository {
	return &PgGroupRepository{db: db, logger: logger.With("component", "group_repository_pg")}
}

func (r *PgGroupRepository) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	query := `SELECT id, name, active FROM groups WHERE id = $1`

	var g domain.Group
	err := r.db.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying group by id: %w", err)
	}
	return &g, nil
}
