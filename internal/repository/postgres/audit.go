package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/securo/securo-server/internal/model"
)

var _ model.AccessLogStore = (*AccessLogRepository)(nil)

type AccessLogRepository struct {
	db *Connection
}

func NewAccessLogRepository(db *Connection) *AccessLogRepository {
	return &AccessLogRepository{
		db: db,
	}
}

func (r *AccessLogRepository) Create(ctx context.Context, entry model.AccessLogEntry) error {
	const query = `INSERT INTO access_log (id, service) VALUES ($1, $2)`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query, entry.ID, entry.Service)
	if err != nil {
		return fmt.Errorf("failed to create access log entry: %w", err)
	}

	return nil
}

func (r *AccessLogRepository) GetByService(ctx context.Context, service string) ([]model.AccessLogEntry, error) {
	const query = `
		SELECT id, service, accessed_at
		FROM access_log
		WHERE service = $1
		ORDER BY accessed_at ASC`

	rows, err := r.db.Query(ctx, query, service)
	if err != nil {
		return nil, fmt.Errorf("failed to query access log: %w", err)
	}
	defer rows.Close()

	var entries []model.AccessLogEntry
	for rows.Next() {
		var e model.AccessLogEntry
		if err := rows.Scan(&e.ID, &e.Service, &e.AccessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan access log entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
