package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

// PgTicketMetaRepository resolves the named defaults of the ticketing system.
// The tables behind it are small and effectively static; queries stay simple
// instead of caching.
type PgTicketMetaRepository struct {
	db     DB
	logger *slog.Logger
}

func NewPgTicketMetaRepository(db DB, logger *slog.Logger) domain.TicketMetaRepository {
	return &PgTicketMetaRepository{db: db, logger: logger.With("component", "ticket_meta_repository_pg")}
}

func (r *PgTicketMetaRepository) ArticleTypeByName(ctx context.Context, name string) (*domain.ArticleType, error) {
	query := `SELECT id, name FROM ticket_article_types WHERE name = $1`

	var t domain.ArticleType
	if err := r.db.QueryRow(ctx, query, name).Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying article type %q: %w", name, err)
	}
	return &t, nil
}

func (r *PgTicketMetaRepository) SenderByName(ctx context.Context, name string) (*domain.ArticleSender, error) {
	query := `SELECT id, name FROM ticket_article_senders WHERE name = $1`

	var s domain.ArticleSender
	if err := r.db.QueryRow(ctx, query, name).Scan(&s.ID, &s.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying article sender %q: %w", name, err)
	}
	return &s, nil
}

func (r *PgTicketMetaRepository) scanState(row pgx.Row, what string) (*domain.TicketState, error) {
	var s domain.TicketState
	if err := row.Scan(&s.ID, &s.Name, &s.DefaultCreate, &s.DefaultFollowUp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying %s: %w", what, err)
	}
	return &s, nil
}

const stateColumns = `id, name, default_create, default_follow_up`

func (r *PgTicketMetaRepository) DefaultCreateState(ctx context.Context) (*domain.TicketState, error) {
	query := `SELECT ` + stateColumns + ` FROM ticket_states WHERE default_create ORDER BY id LIMIT 1`
	return r.scanState(r.db.QueryRow(ctx, query), "default create state")
}

func (r *PgTicketMetaRepository) DefaultFollowUpState(ctx context.Context) (*domain.TicketState, error) {
	query := `SELECT ` + stateColumns + ` FROM ticket_states WHERE default_follow_up ORDER BY id LIMIT 1`
	return r.scanState(r.db.QueryRow(ctx, query), "default follow-up state")
}

func (r *PgTicketMetaRepository) DefaultCreatePriority(ctx context.Context) (*domain.TicketPriority, error) {
	query := `SELECT id, name, default_create FROM ticket_priorities WHERE default_create ORDER BY id LIMIT 1`

	var p domain.TicketPriority
	if err := r.db.QueryRow(ctx, query).Scan(&p.ID, &p.Name, &p.DefaultCreate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("querying default create priority: %w", err)
	}
	return &p, nil
}

func (r *PgTicketMetaRepository) StateIDsByName(ctx context.Context, names []string) ([]int64, error) {
	query := `SELECT id FROM ticket_states WHERE name = ANY($1) ORDER BY id`

	rows, err := r.db.Query(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("querying state ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning state id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating state ids: %w", err)
	}
	return ids, nil
}
