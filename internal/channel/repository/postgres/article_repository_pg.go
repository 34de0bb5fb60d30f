package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

type PgArticleRepository struct {
	db     DB
	logger *slog.Logger
}

func NewPgArticleRepository(db DB, logger *slog.Logger) domain.ArticleRepository {
	return &PgArticleRepository{db: db, logger: logger.With("component", "article_repository_pg")}
}

func (r *PgArticleRepository) FindByMessageID(ctx context.Context, messageID string) (*domain.Article, error) {
	query := `
		SELECT id, ticket_id, type_id, sender_id, "from", "to", body, message_id, content_type, preferences, created_at
		FROM ticket_articles
		WHERE message_id = $1
		LIMIT 1
	`

	var a domain.Article
	err := r.db.QueryRow(ctx, query, messageID).Scan(
		&a.ID,
		&a.TicketID,
		&a.TypeID,
		&a.SenderID,
		&a.From,
		&a.To,
		&a.Body,
		&a.MessageID,
		&a.ContentType,
		&a.Preferences,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying article by message id: %w", err)
	}
	return &a, nil
}

// Create inserts an article. The message_id column carries a unique index, so
// two concurrent deliveries of the same provider message id cannot both land;
// the second insert fails and the retry is answered as a duplicate by the
// dedup stage.
func (r *PgArticleRepository) Create(ctx context.Context, actor domain.Actor, article *domain.Article) (*domain.Article, error) {
	query := `
		INSERT INTO ticket_articles (ticket_id, type_id, sender_id, "from", "to", body, message_id, content_type, preferences, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		article.TicketID,
		article.TypeID,
		article.SenderID,
		article.From,
		article.To,
		article.Body,
		article.MessageID,
		article.ContentType,
		article.Preferences,
		actor.UserID,
	).Scan(&article.ID, &article.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting article: %w", err)
	}

	r.logger.InfoContext(ctx, "Created article", "article_id", article.ID, "ticket_id", article.TicketID, "message_id", article.MessageID, "actor_id", actor.UserID)
	return article, nil
}
