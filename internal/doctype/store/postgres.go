package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"customer-service/internal/doctype/models"
	"customer-service/internal/platform/postgres"
	"customer-service/pkg/platform/sentinel"
)

// PostgresStore reads and writes the doc_types reference table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, dt *models.DocType) error {
	if dt.CreatedAt.IsZero() {
		dt.CreatedAt = time.Now()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO doc_types (name, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING doc_type_id`,
		dt.Name, dt.Description, dt.CreatedAt,
	).Scan(&dt.ID)
	if err != nil {
		if postgres.IsUniqueViolation(err, "ux_doc_types_active_name") {
			return fmt.Errorf("doc type %q: %w", dt.Name, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert doc type: %w", err)
	}
	return nil
}

func (s *PostgresStore) Retire(ctx context.Context, id int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE doc_types SET deleted_at = $2 WHERE doc_type_id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("retire doc type: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM doc_types WHERE doc_type_id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check doc type: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.DocType, error) {
	var (
		dt        models.DocType
		deletedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT doc_type_id, name, description, created_at, deleted_at
		FROM doc_types WHERE doc_type_id = $1`, id,
	).Scan(&dt.ID, &dt.Name, &dt.Description, &dt.CreatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find doc type: %w", err)
	}
	if deletedAt.Valid {
		dt.DeletedAt = &deletedAt.Time
	}
	return &dt, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.DocType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_type_id, name, description, created_at
		FROM doc_types WHERE deleted_at IS NULL
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list doc types: %w", err)
	}
	defer rows.Close()

	out := make([]*models.DocType, 0)
	for rows.Next() {
		var dt models.DocType
		if err := rows.Scan(&dt.ID, &dt.Name, &dt.Description, &dt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan doc type: %w", err)
		}
		out = append(out, &dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doc types: %w", err)
	}
	return out, nil
}
