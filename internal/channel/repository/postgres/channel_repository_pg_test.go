package postgres

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

func TestPgChannelRepository_GetByWebhookToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	query := regexp.QuoteMeta(`SELECT id, options, group_id, active, created_at, updated_at FROM channels WHERE options->>'webhook_token' = $1 AND active`)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	token := "7f3a9c0d4e5b6a718293a4b5c6d7e8f90123456789abcdef0123456789abcdef"

	t.Run("Found", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		repo := NewPgChannelRepository(mockPool, logger)

		options := domain.ChannelOptions{
			Gateway:      "https://nowsms.example.com",
			WebhookToken: token,
			AccountID:    "nowsms-user",
		}
		rows := mockPool.NewRows([]string{"id", "options", "group_id", "active", "created_at", "updated_at"}).
			AddRow(int64(7), options, sql.NullInt64{Int64: 2, Valid: true}, true, now, now)
		mockPool.ExpectQuery(query).WithArgs(token).WillReturnRows(rows)

		channel, err := repo.GetByWebhookToken(context.Background(), token)
		require.NoError(t, err)
		require.NotNil(t, channel)
		assert.Equal(t, int64(7), channel.ID)
		assert.Equal(t, token, channel.Options.WebhookToken)
		assert.Equal(t, int64(2), channel.GroupID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NullGroupIDBecomesZero", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		repo := NewPgChannelRepository(mockPool, logger)

		rows := mockPool.NewRows([]string{"id", "options", "group_id", "active", "created_at", "updated_at"}).
			AddRow(int64(7), domain.ChannelOptions{WebhookToken: token}, sql.NullInt64{}, true, now, now)
		mockPool.ExpectQuery(query).WithArgs(token).WillReturnRows(rows)

		channel, err := repo.GetByWebhookToken(context.Background(), token)
		require.NoError(t, err)
		assert.Zero(t, channel.GroupID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("UnknownTokenIsNilNotError", func(t *testing.T) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mockPool.Close()
		repo := NewPgChannelRepository(mockPool, logger)

		mockPool.ExpectQuery(query).WithArgs("wrong-token").WillReturnError(pgx.ErrNoRows)

		channel, err := repo.GetByWebhookToken(context.Background(), "wrong-token")
		assert.NoError(t, err)
		assert.Nil(t, channel)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgChannelRepository_GetByID_NotFound(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	query := regexp.QuoteMeta(`SELECT id, options, group_id, active, created_at, updated_at FROM channels WHERE id = $1`)

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()
	repo := NewPgChannelRepository(mockPool, logger)

	mockPool.ExpectQuery(query).WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)

	channel, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, channel)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
