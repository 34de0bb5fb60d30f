package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

type PgTicketRepository struct {
	db     DB
	logger *slog.Logger
}

func NewPgTicketRepository(db DB, logger *slog.Logger) domain.TicketRepository {
	return &PgTicketRepository{db: db, logger: logger.With("component", "ticket_repository_pg")}
}

const ticketColumns = `id, group_id, title, state_id, priority_id, customer_id, create_article_type_id, preferences, created_at, updated_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(
		&t.ID,
		&t.GroupID,
		&t.Title,
		&t.StateID,
		&t.PriorityID,
		&t.CustomerID,
		&t.CreateArticleTypeID,
		&t.Preferences,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgTicketRepository) FindOpenByCustomer(ctx context.Context, customerID, articleTypeID int64, excludedStateIDs []int64) (*domain.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE customer_id = $1
		  AND create_article_type_id = $2
		  AND NOT (state_id = ANY($3))
		ORDER BY updated_at DESC
		LIMIT 1
	`

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, customerID, articleTypeID, excludedStateIDs))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying open ticket for customer %d: %w", customerID, err)
	}
	return ticket, nil
}

func (r *PgTicketRepository) Create(ctx context.Context, actor domain.Actor, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `
		INSERT INTO tickets (group_id, title, state_id, priority_id, customer_id, create_article_type_id, preferences, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, now(), now())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		ticket.GroupID,
		ticket.Title,
		ticket.StateID,
		ticket.PriorityID,
		ticket.CustomerID,
		ticket.CreateArticleTypeID,
		ticket.Preferences,
		actor.UserID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting ticket: %w", err)
	}

	r.logger.InfoContext(ctx, "Created ticket", "ticket_id", ticket.ID, "customer_id", ticket.CustomerID, "actor_id", actor.UserID)
	return ticket, nil
}

func (r *PgTicketRepository) UpdateState(ctx context.Context, actor domain.Actor, ticketID, stateID int64) error {
	query := `UPDATE tickets SET state_id = $1, updated_by = $2, updated_at = now() WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, stateID, actor.UserID, ticketID)
	if err != nil {
		return fmt.Errorf("updating state of ticket %d: %w", ticketID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Updated ticket state", "ticket_id", ticketID, "state_id", stateID, "actor_id", actor.UserID)
	return nil
}
