package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

type PgChannelRepository struct {
	db     DB
	logger *slog.Logger
}

func NewPgChannelRepository(db DB, logger *slog.Logger) domain.ChannelRepository {
	return &PgChannelRepository{db: db, logger: logger.With("component", "channel_repository_pg")}
}

const channelColumns = `id, options, group_id, active, created_at, updated_at`

func scanChannel(row pgx.Row) (*domain.Channel, error) {
	var (
		ch      domain.Channel
		groupID sql.NullInt64
	)
	err := row.Scan(&ch.ID, &ch.Options, &groupID, &ch.Active, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ch.GroupID = groupID.Int64
	return &ch, nil
}

func (r *PgChannelRepository) GetByID(ctx context.Context, id int64) (*domain.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE id = $1`

	ch, err := scanChannel(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying channel by id: %w", err)
	}
	return ch, nil
}

func (r *PgChannelRepository) GetByWebhookToken(ctx context.Context, token string) (*domain.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE options->>'webhook_token' = $1 AND active`

	ch, err := scanChannel(r.db.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying channel by webhook token: %w", err)
	}
	return ch, nil
}
