package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/securo/securo-server/internal/model"
)

var _ model.MasterStore = (*MasterRepository)(nil)

type MasterRepository struct {
	db *Connection
}

func NewMasterRepository(db *Connection) *MasterRepository {
	return &MasterRepository{
		db: db,
	}
}

// Create inserts the singleton credential row. The table constrains id
// to 1, so a second insert fails with a unique violation regardless of
// how the race between two bootstrap calls resolves.
func (r *MasterRepository) Create(ctx context.Context, credential model.MasterCredential) error {
	const query = `INSERT INTO master_credential (id, password_hash) VALUES (1, $1)`

	_, err := r.db.Exec(ctx, query, credential.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrAlreadyInitialized
		}
		return fmt.Errorf("failed to create master credential: %w", err)
	}

	return nil
}

func (r *MasterRepository) Get(ctx context.Context) (model.MasterCredential, error) {
	const query = `SELECT password_hash, created_at FROM master_credential WHERE id = 1`

	var credential model.MasterCredential
	err := r.db.QueryRow(ctx, query).Scan(&credential.PasswordHash, &credential.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MasterCredential{}, model.ErrNotInitialized
		}
		return model.MasterCredential{}, fmt.Errorf("failed to get master credential: %w", err)
	}

	return credential, nil
}
