package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"customer-service/internal/customer/models"
	"customer-service/internal/platform/postgres"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/platform/sentinel"
)

const activeUserIndex = "ux_customer_details_active_user"

const customerColumns = `customer_id, user_id, status, phone_number, address, date_of_birth,
	occupation, created_by, created_at, modified_by, modified_at, deleted_by, deleted_at`

// PostgresStore persists customers in customer_details. Uniqueness of the
// active customer per user is enforced by a partial unique index.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *models.CustomerDetails) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO customer_details (user_id, status, phone_number, address, date_of_birth,
			occupation, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING customer_id`,
		c.UserID, c.Status, c.PhoneNumber, c.Address, postgres.NullTime(c.DateOfBirth),
		c.Occupation, c.CreatedBy, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		if postgres.IsUniqueViolation(err, activeUserIndex) {
			return fmt.Errorf("customer for user %d: %w", c.UserID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindActiveByID(ctx context.Context, id int64) (*models.CustomerDetails, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customer_details WHERE customer_id = $1 AND deleted_at IS NULL`, id)
	return scanOne(row)
}

func (s *PostgresStore) FindActiveByUserID(ctx context.Context, userID int64) (*models.CustomerDetails, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customer_details WHERE user_id = $1 AND deleted_at IS NULL`, userID)
	return scanOne(row)
}

// ExistsAny includes soft-deleted rows.
func (s *PostgresStore) ExistsAny(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM customer_details WHERE customer_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check customer: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) ExistsActive(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM customer_details WHERE customer_id = $1 AND deleted_at IS NULL)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active customer: %w", err)
	}
	return exists, nil
}

// Save writes every mutable column of an active row, including the soft
// delete stamps. A row deleted concurrently reports ErrNotFound.
func (s *PostgresStore) Save(ctx context.Context, c *models.CustomerDetails) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE customer_details SET
			status = $2, phone_number = $3, address = $4, date_of_birth = $5, occupation = $6,
			modified_by = $7, modified_at = $8, deleted_by = $9, deleted_at = $10
		WHERE customer_id = $1 AND deleted_at IS NULL`,
		c.ID, c.Status, c.PhoneNumber, c.Address, postgres.NullTime(c.DateOfBirth), c.Occupation,
		postgres.NullInt64(c.ModifiedBy), postgres.NullTime(c.ModifiedAt), postgres.NullInt64(c.DeletedBy), postgres.NullTime(c.DeletedAt),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, activeUserIndex) {
			return fmt.Errorf("customer for user %d: %w", c.UserID, sentinel.ErrConflict)
		}
		return fmt.Errorf("update customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListActive runs the filtered count and the page query concurrently.
func (s *PostgresStore) ListActive(ctx context.Context, filter models.ListFilter, req paging.Request) ([]*models.CustomerDetails, int, error) {
	where := `deleted_at IS NULL`
	args := []any{}
	if filter.RestrictToUsers {
		where += ` AND user_id = ANY($1::bigint[])`
		args = append(args, pq.Array(filter.UserIDs))
	}

	var (
		total int
		items []*models.CustomerDetails
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.db.QueryRowContext(gctx, `SELECT COUNT(*) FROM customer_details WHERE `+where, args...).Scan(&total); err != nil {
			return fmt.Errorf("count customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		n := len(args)
		pageArgs := append(append([]any{}, args...), req.Limit(), req.Offset())
		query := fmt.Sprintf(`SELECT %s FROM customer_details WHERE %s
			ORDER BY created_at DESC, customer_id DESC LIMIT $%d OFFSET $%d`, customerColumns, where, n+1, n+2)
		rows, err := s.db.QueryContext(gctx, query, pageArgs...)
		if err != nil {
			return fmt.Errorf("list customers: %w", err)
		}
		defer rows.Close()
		items = make([]*models.CustomerDetails, 0, req.Limit())
		for rows.Next() {
			c, err := scan(rows)
			if err != nil {
				return err
			}
			items = append(items, c)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate customers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row *sql.Row) (*models.CustomerDetails, error) {
	c, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func scan(row scanner) (*models.CustomerDetails, error) {
	var (
		c                     models.CustomerDetails
		dob, modAt, delAt     sql.NullTime
		modifiedBy, deletedBy sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Status, &c.PhoneNumber, &c.Address, &dob,
		&c.Occupation, &c.CreatedBy, &c.CreatedAt, &modifiedBy, &modAt, &deletedBy, &delAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	c.DateOfBirth = postgres.TimePtr(dob)
	c.ModifiedAt = postgres.TimePtr(modAt)
	c.DeletedAt = postgres.TimePtr(delAt)
	c.ModifiedBy = postgres.Int64Ptr(modifiedBy)
	c.DeletedBy = postgres.Int64Ptr(deletedBy)
	return &c, nil
}
