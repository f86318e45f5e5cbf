package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/manhcun265/LVM-shop-manager/internal/domain"

	"github.com/google/uuid"
)

// ProductImageRepository manages the image set owned by a product.
// Replace discards the prior set entirely; images are never merged.
type ProductImageRepository interface {
	Replace(ctx context.Context, productID uuid.UUID, imageURLs []string) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductImage, error)
	WithTx(tx *sql.Tx) ProductImageRepository
}

type productImageRepository struct {
	db DBTX
}

// NewProductImageRepository creates a new instance of ProductImageRepository.
func NewProductImageRepository(db DBTX) ProductImageRepository {
	return &productImageRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *productImageRepository) WithTx(tx *sql.Tx) ProductImageRepository {
	return &productImageRepository{db: tx}
}

// Replace deletes every image currently attached to the product and
// inserts one row per supplied URL. An empty slice leaves the product
// with zero images.
func (r *productImageRepository) Replace(ctx context.Context, productID uuid.UUID, imageURLs []string) error {
	deleteQuery := `DELETE FROM product_images WHERE product_id = $1`

	if _, err := r.db.ExecContext(ctx, deleteQuery, productID); err != nil {
		return fmt.Errorf("failed to delete product images: %w", err)
	}

	insertQuery := `
		INSERT INTO product_images (id, product_id, image_url)
		VALUES ($1, $2, $3)
	`

	for _, url := range imageURLs {
		if _, err := r.db.ExecContext(ctx, insertQuery, uuid.New(), productID, url); err != nil {
			return fmt.Errorf("failed to insert product image: %w", err)
		}
	}

	return nil
}

// ListByProduct retrieves all images attached to a product.
func (r *productImageRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]domain.ProductImage, error) {
	query := `
		SELECT id, product_id, image_url
		FROM product_images
		WHERE product_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}
	defer rows.Close()

	images := []domain.ProductImage{}
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		images = append(images, img)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}

	return images, nil
}
