package service

import (
	"context"
	"fmt"

	"github.com/manhcun265/LVM-shop-manager/internal/domain"
	"github.com/manhcun265/LVM-shop-manager/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidPage = fmt.Errorf("page must be >= 0 and page size > 0: %w", domain.ErrInvalidArgument)

// ProductView is the full read model of one product: the entity itself,
// the resolved category name, the owned image set and the audit history.
type ProductView struct {
	Product      domain.Product            `json:"product"`
	CategoryName string                    `json:"category_name"`
	ImageURLs    []string                  `json:"image_urls"`
	History      []domain.ProductStatusLog `json:"history"`
}

// ProductQuery is the read-only side of the catalog. It never mutates
// state; it only composes filters, paginates and projects.
type ProductQuery interface {
	// Search matches products by case-insensitive name substring and/or
	// category. Both criteria together take AND semantics; nil criteria
	// are skipped. Pages are zero-indexed.
	Search(ctx context.Context, keyword *string, categoryID *uuid.UUID, page, pageSize int) (domain.Page[domain.ProductDetail], error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, page, pageSize int) (domain.Page[domain.ProductDetail], error)
	ListAll(ctx context.Context, page, pageSize int) (domain.Page[domain.ProductDetail], error)
	Get(ctx context.Context, id uuid.UUID) (*ProductView, error)
	History(ctx context.Context, productID uuid.UUID) ([]domain.ProductStatusLog, error)
}

type productQuery struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	images     repository.ProductImageRepository
	logs       repository.StatusLogRepository
}

// NewProductQuery creates a new instance of ProductQuery.
func NewProductQuery(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	images repository.ProductImageRepository,
	logs repository.StatusLogRepository,
) ProductQuery {
	return &productQuery{
		products:   products,
		categories: categories,
		images:     images,
		logs:       logs,
	}
}

// Search composes the filter and returns one page of detail projections.
func (q *productQuery) Search(ctx context.Context, keyword *string, categoryID *uuid.UUID, page, pageSize int) (domain.Page[domain.ProductDetail], error) {
	if page < 0 || pageSize <= 0 {
		return domain.Page[domain.ProductDetail]{}, ErrInvalidPage
	}

	filter := repository.ProductFilter{
		Keyword:    keyword,
		CategoryID: categoryID,
	}

	items, total, err := q.products.Search(ctx, filter, page, pageSize)
	if err != nil {
		return domain.Page[domain.ProductDetail]{}, err
	}

	return domain.Page[domain.ProductDetail]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
	}, nil
}

// ListByCategory is Search with only the category criterion set.
func (q *productQuery) ListByCategory(ctx context.Context, categoryID uuid.UUID, page, pageSize int) (domain.Page[domain.ProductDetail], error) {
	return q.Search(ctx, nil, &categoryID, page, pageSize)
}

// ListAll is Search with no criteria.
func (q *productQuery) ListAll(ctx context.Context, page, pageSize int) (domain.Page[domain.ProductDetail], error) {
	return q.Search(ctx, nil, nil, page, pageSize)
}

// Get assembles the full read model for one product. The referenced
// category must exist for the projection to succeed.
func (q *productQuery) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := q.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category, err := q.categories.FindByID(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}

	images, err := q.images.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := q.logs.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.ImageURL)
	}

	return &ProductView{
		Product:      *product,
		CategoryName: category.Name,
		ImageURLs:    urls,
		History:      history,
	}, nil
}

// History returns the audit trail of a product in chronological order.
// It deliberately does not require the product to still exist, so the
// trail of a deleted product stays retrievable.
func (q *productQuery) History(ctx context.Context, productID uuid.UUID) ([]domain.ProductStatusLog, error) {
	return q.logs.ListByProduct(ctx, productID)
}
