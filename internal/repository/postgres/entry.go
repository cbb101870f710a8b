package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/securo/securo-server/internal/model"
)

var _ model.EntryStore = (*EntryRepository)(nil)

// uniqueViolation is the postgres error code for unique constraint breaks.
const uniqueViolation = "23505"

type EntryRepository struct {
	db *Connection
}

func NewEntryRepository(db *Connection) *EntryRepository {
	return &EntryRepository{
		db: db,
	}
}

func (r *EntryRepository) Create(ctx context.Context, entry model.Entry) (model.Entry, error) {
	query := `
		INSERT INTO entries (id, service, email, secret_enc, category, strength)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, service, email, secret_enc, category, strength, created_at, updated_at`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	var saved model.Entry
	err := r.db.QueryRow(ctx, query,
		entry.ID, entry.Service, entry.Email, entry.EncryptedSecret, entry.Category, entry.Strength,
	).Scan(
		&saved.ID, &saved.Service, &saved.Email, &saved.EncryptedSecret,
		&saved.Category, &saved.Strength, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.Entry{}, model.ErrDuplicateService
		}
		return model.Entry{}, fmt.Errorf("failed to create entry: %w", err)
	}

	return saved, nil
}

func (r *EntryRepository) GetByService(ctx context.Context, service string) (model.Entry, error) {
	// Oldest row wins when the same service exists under several emails.
	query := `
		SELECT id, service, email, secret_enc, category, strength, created_at, updated_at
		FROM entries
		WHERE service = $1
		ORDER BY created_at ASC
		LIMIT 1`

	var entry model.Entry
	err := r.db.QueryRow(ctx, query, service).Scan(
		&entry.ID, &entry.Service, &entry.Email, &entry.EncryptedSecret,
		&entry.Category, &entry.Strength, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Entry{}, model.ErrNotFound
		}
		return model.Entry{}, fmt.Errorf("failed to get entry by service: %w", err)
	}

	return entry, nil
}

// RotateSecret replaces ciphertext, strength and updated_at in one
// statement so concurrent rotations cannot leave a torn row.
func (r *EntryRepository) RotateSecret(ctx context.Context, service string, encryptedSecret []byte, strength int) (model.Entry, error) {
	query := `
		UPDATE entries
		SET secret_enc = $2, strength = $3, updated_at = NOW()
		WHERE id = (
			SELECT id FROM entries WHERE service = $1 ORDER BY created_at ASC LIMIT 1
		)
		RETURNING id, service, email, secret_enc, category, strength, created_at, updated_at`

	var entry model.Entry
	err := r.db.QueryRow(ctx, query, service, encryptedSecret, strength).Scan(
		&entry.ID, &entry.Service, &entry.Email, &entry.EncryptedSecret,
		&entry.Category, &entry.Strength, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Entry{}, model.ErrNotFound
		}
		return model.Entry{}, fmt.Errorf("failed to rotate entry secret: %w", err)
	}

	return entry, nil
}

func (r *EntryRepository) Delete(ctx context.Context, service string) error {
	const query = `
		DELETE FROM entries
		WHERE id = (
			SELECT id FROM entries WHERE service = $1 ORDER BY created_at ASC LIMIT 1
		)`

	cmd, err := r.db.Exec(ctx, query, service)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *EntryRepository) List(ctx context.Context) ([]model.EntryMetadata, error) {
	query := `
		SELECT service, email, category, strength, updated_at
		FROM entries
		ORDER BY service ASC, created_at ASC`

	return r.queryMetadata(ctx, query)
}

func (r *EntryRepository) Search(ctx context.Context, q string) ([]model.EntryMetadata, error) {
	query := `
		SELECT service, email, category, strength, updated_at
		FROM entries
		WHERE service ILIKE '%' || $1 || '%'
		ORDER BY service ASC, created_at ASC`

	return r.queryMetadata(ctx, query, q)
}

func (r *EntryRepository) GetAll(ctx context.Context) ([]model.Entry, error) {
	query := `
		SELECT id, service, email, secret_enc, category, strength, created_at, updated_at
		FROM entries
		ORDER BY service ASC, created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var entry model.Entry
		err := rows.Scan(
			&entry.ID, &entry.Service, &entry.Email, &entry.EncryptedSecret,
			&entry.Category, &entry.Strength, &entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *EntryRepository) queryMetadata(ctx context.Context, query string, args ...any) ([]model.EntryMetadata, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry metadata: %w", err)
	}
	defer rows.Close()

	var items []model.EntryMetadata
	for rows.Next() {
		var m model.EntryMetadata
		if err := rows.Scan(&m.Service, &m.Email, &m.Category, &m.Strength, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry metadata: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
