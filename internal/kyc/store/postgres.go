package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	dtmodels "customer-service/internal/doctype/models"
	"customer-service/internal/kyc/models"
	"customer-service/internal/platform/postgres"
	"customer-service/pkg/platform/paging"
	"customer-service/pkg/platform/sentinel"
)

const (
	activeDocumentIndex = "ux_kyc_active_document"
	docRefNoConstraint  = "kyc_doc_ref_no_key"
)

const joinedSelect = `SELECT k.kyc_id, k.customer_id, k.doc_type_id, k.file_path, k.doc_checksum,
	k.doc_ref_no, k.verification_status, k.remarks, k.created_at, k.modified_at, k.deleted_at,
	d.name, d.description, d.created_at, d.deleted_at
	FROM kyc k JOIN doc_types d ON d.doc_type_id = k.doc_type_id`

// PostgresStore persists KYC documents in the kyc table. It reads customer
// existence with its own query rather than going through the customer
// module.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CustomerExistsActive(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM customer_details WHERE customer_id = $1 AND deleted_at IS NULL)`,
		customerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check customer: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Create(ctx context.Context, k *models.Kyc) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO kyc (customer_id, doc_type_id, file_path, doc_checksum, doc_ref_no,
			verification_status, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING kyc_id`,
		k.CustomerID, k.DocTypeID, k.FilePath, k.DocChecksum, k.DocRefNo,
		k.VerificationStatus, k.Remarks, k.CreatedAt,
	).Scan(&k.ID)
	if err != nil {
		return mapWriteErr(err, "insert kyc")
	}
	return nil
}

func (s *PostgresStore) FindActiveByID(ctx context.Context, id int64) (*models.Kyc, error) {
	k, err := scan(s.db.QueryRowContext(ctx, joinedSelect+` WHERE k.kyc_id = $1 AND k.deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return k, nil
}

func (s *PostgresStore) ListActiveByCustomer(ctx context.Context, customerID int64) ([]*models.Kyc, error) {
	rows, err := s.db.QueryContext(ctx, joinedSelect+`
		WHERE k.customer_id = $1 AND k.deleted_at IS NULL
		ORDER BY k.created_at DESC, k.kyc_id DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list kyc by customer: %w", err)
	}
	return scanAll(rows)
}

func (s *PostgresStore) HasActiveDocument(ctx context.Context, customerID, docTypeID, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM kyc
			WHERE customer_id = $1 AND doc_type_id = $2 AND kyc_id <> $3
				AND deleted_at IS NULL AND file_path <> ''
		)`, customerID, docTypeID, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active document: %w", err)
	}
	return exists, nil
}

// Save writes every mutable column of an active row.
func (s *PostgresStore) Save(ctx context.Context, k *models.Kyc) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE kyc SET
			customer_id = $2, doc_type_id = $3, file_path = $4, doc_checksum = $5,
			verification_status = $6, remarks = $7, modified_at = $8, deleted_at = $9
		WHERE kyc_id = $1 AND deleted_at IS NULL`,
		k.ID, k.CustomerID, k.DocTypeID, k.FilePath, k.DocChecksum,
		k.VerificationStatus, k.Remarks, postgres.NullTime(k.ModifiedAt), postgres.NullTime(k.DeletedAt),
	)
	if err != nil {
		return mapWriteErr(err, "update kyc")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update kyc: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListActive runs the filtered count and the page query concurrently.
func (s *PostgresStore) ListActive(ctx context.Context, filter models.ListFilter, req paging.Request) ([]*models.Kyc, int, error) {
	where := `k.deleted_at IS NULL`
	args := []any{}
	if filter.VerificationStatus != "" {
		where += ` AND LOWER(k.verification_status) = LOWER($1)`
		args = append(args, filter.VerificationStatus)
	}

	var (
		total int
		items []*models.Kyc
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.db.QueryRowContext(gctx, `SELECT COUNT(*) FROM kyc k WHERE `+where, args...).Scan(&total); err != nil {
			return fmt.Errorf("count kyc: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		n := len(args)
		pageArgs := append(append([]any{}, args...), req.Limit(), req.Offset())
		rows, err := s.db.QueryContext(gctx, fmt.Sprintf(`%s WHERE %s
			ORDER BY k.created_at DESC, k.kyc_id DESC LIMIT $%d OFFSET $%d`, joinedSelect, where, n+1, n+2), pageArgs...)
		if err != nil {
			return fmt.Errorf("list kyc: %w", err)
		}
		items, err = scanAll(rows)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func mapWriteErr(err error, op string) error {
	if postgres.IsUniqueViolation(err, activeDocumentIndex) || postgres.IsUniqueViolation(err, docRefNoConstraint) {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*models.Kyc, error) {
	var (
		k            models.Kyc
		dt           dtmodels.DocType
		modAt, delAt sql.NullTime
		dtDeletedAt  sql.NullTime
	)
	err := row.Scan(&k.ID, &k.CustomerID, &k.DocTypeID, &k.FilePath, &k.DocChecksum,
		&k.DocRefNo, &k.VerificationStatus, &k.Remarks, &k.CreatedAt, &modAt, &delAt,
		&dt.Name, &dt.Description, &dt.CreatedAt, &dtDeletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan kyc: %w", err)
	}
	k.ModifiedAt = postgres.TimePtr(modAt)
	k.DeletedAt = postgres.TimePtr(delAt)
	dt.ID = k.DocTypeID
	dt.DeletedAt = postgres.TimePtr(dtDeletedAt)
	k.DocType = &dt
	return &k, nil
}

func scanAll(rows *sql.Rows) ([]*models.Kyc, error) {
	defer rows.Close()
	out := make([]*models.Kyc, 0)
	for rows.Next() {
		k, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kyc: %w", err)
	}
	return out, nil
}
