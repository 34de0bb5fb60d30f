package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sysdesk/nowsms_channel/internal/channel/domain"
)

type PgCallerIDRepository struct {
	db     DB
	logger *slog.Logger
}

func NewPgCallerIDRepository(db DB, logger *slog.Logger) domain.CallerIDRepository {
	return &PgCallerIDRepository{db: db, logger: logger.With("component", "caller_id_repository_pg")}
}

// PreferencesFor returns the contact-preference entries for a caller id,
// newest first. An unknown caller id yields an empty slice, not an error.
func (r *PgCallerIDRepository) PreferencesFor(ctx context.Context, callerID string) ([]domain.CallerIDEntry, error) {
	query := `SELECT level, object, o_id FROM cti_caller_ids WHERE caller_id = $1 ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, callerID)
	if err != nil {
		return nil, fmt.Errorf("querying caller id preferences: %w", err)
	}
	defer rows.Close()

	var entries []domain.CallerIDEntry
	for rows.Next() {
		var e domain.CallerIDEntry
		if err := rows.Scan(&e.Level, &e.Object, &e.ObjectID); err != nil {
			return nil, fmt.Errorf("scanning caller id entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating caller id entries: %w", err)
	}
	return entries, nil
}
