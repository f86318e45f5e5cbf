package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/manhcun265/LVM-shop-manager/internal/domain"

	"github.com/google/uuid"
)

var ErrProductNotFound = fmt.Errorf("product %w", domain.ErrNotFound)

// ProductFilter describes the optional search criteria. A nil field means
// the criterion is not applied; when both are set they combine with AND.
type ProductFilter struct {
	// Keyword matches the product name as a case-insensitive substring.
	Keyword *string
	// CategoryID matches products belonging to the category exactly.
	CategoryID *uuid.UUID
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	Search(ctx context.Context, filter ProductFilter, page, pageSize int) ([]domain.ProductDetail, int, error)
	WithTx(tx *sql.Tx) ProductRepository
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *productRepository) WithTx(tx *sql.Tx) ProductRepository {
	return &productRepository{db: tx}
}

// Create inserts a new product using parameterized queries.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, price, status, category_id, detail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Price,
		product.Status,
		product.CategoryID,
		product.Detail,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update overwrites name, price, category and detail of an existing
// product. Status is deliberately untouched; UpdateStatus owns it.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, price = $3, category_id = $4, detail = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Price,
		product.CategoryID,
		product.Detail,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// UpdateStatus persists only the status field of a product.
func (r *productRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus) error {
	query := `UPDATE products SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product by ID.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, price, status, category_id, detail, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Status,
		&product.CategoryID,
		&product.Detail,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ExistsByID reports whether a product with the given ID exists.
func (r *productRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}

	return exists, nil
}

// CountByCategory counts products that reference the given category.
func (r *productRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE category_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products by category: %w", err)
	}

	return count, nil
}

// Search retrieves a zero-indexed page of product detail projections
// matching the filter. The WHERE clause is composed dynamically: keyword
// and category criteria are ANDed when both are present.
func (r *productRepository) Search(ctx context.Context, filter ProductFilter, page, pageSize int) ([]domain.ProductDetail, int, error) {
	whereClause := ""
	args := []any{}
	argIndex := 1

	if filter.Keyword != nil {
		whereClause = fmt.Sprintf("WHERE p.name ILIKE $%d", argIndex)
		args = append(args, "%"+*filter.Keyword+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		if whereClause == "" {
			whereClause = fmt.Sprintf("WHERE p.category_id = $%d", argIndex)
		} else {
			whereClause += fmt.Sprintf(" AND p.category_id = $%d", argIndex)
		}
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products p %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := page * pageSize

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.price, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.created_at ASC, p.id ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	details := []domain.ProductDetail{}
	for rows.Next() {
		var d domain.ProductDetail
		if err := rows.Scan(&d.ID, &d.Name, &d.Price, &d.CategoryName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product detail: %w", err)
		}
		details = append(details, d)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return details, total, nil
}
