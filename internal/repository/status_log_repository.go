package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/manhcun265/LVM-shop-manager/internal/domain"

	"github.com/google/uuid"
)

// StatusLogRepository is the append-only audit trail of product lifecycle
// events. Entries are never updated or deleted, and product_id is a soft
// reference so history survives product deletion.
type StatusLogRepository interface {
	Append(ctx context.Context, entry *domain.ProductStatusLog) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductStatusLog, error)
	WithTx(tx *sql.Tx) StatusLogRepository
}

type statusLogRepository struct {
	db DBTX
}

// NewStatusLogRepository creates a new instance of StatusLogRepository.
func NewStatusLogRepository(db DBTX) StatusLogRepository {
	return &statusLogRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *statusLogRepository) WithTx(tx *sql.Tx) StatusLogRepository {
	return &statusLogRepository{db: tx}
}

// Append inserts one immutable audit entry.
func (r *statusLogRepository) Append(ctx context.Context, entry *domain.ProductStatusLog) error {
	query := `
		INSERT INTO product_status_logs (id, product_id, user_id, status, logged_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ProductID,
		entry.UserID,
		entry.Status,
		entry.LoggedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to append status log: %w", err)
	}

	return nil
}

// ListByProduct retrieves the audit trail of a product in chronological
// order. Works for deleted products as well.
func (r *statusLogRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductStatusLog, error) {
	query := `
		SELECT id, product_id, user_id, status, logged_at
		FROM product_status_logs
		WHERE product_id = $1
		ORDER BY logged_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status logs: %w", err)
	}
	defer rows.Close()

	entries := []domain.ProductStatusLog{}
	for rows.Next() {
		var entry domain.ProductStatusLog
		err := rows.Scan(
			&entry.ID,
			&entry.ProductID,
			&entry.UserID,
			&entry.Status,
			&entry.LoggedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status logs: %w", err)
	}

	return entries, nil
}
