package service

import (
	"context"
	"fmt"
	"time"

	"github.com/manhcun265/LVM-shop-manager/internal/domain"
	"github.com/manhcun265/LVM-shop-manager/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCategoryInUse is returned when deleting a category that still has
// products. Orphaning products is not permitted.
var ErrCategoryInUse = fmt.Errorf("category still has products: %w", domain.ErrConflict)

// CategoryService defines the interface for category business logic.
type CategoryService interface {
	Create(ctx context.Context, name, description string) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, name, description string) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	logger     *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService.
func NewCategoryService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	logger *zap.Logger,
) CategoryService {
	return &categoryService{
		categories: categories,
		products:   products,
		logger:     logger,
	}
}

// Create persists a new category and returns its identity.
func (s *categoryService) Create(ctx context.Context, name, description string) (uuid.UUID, error) {
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	return category.ID, nil
}

// Update overwrites the name and description of an existing category.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, name, description string) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}

	category.Name = name
	category.Description = description

	if err := s.categories.Update(ctx, category); err != nil {
		return err
	}

	s.logger.Info("Category updated", zap.String("category_id", id.String()))
	return nil
}

// Delete removes a category. Categories that still have products cannot
// be deleted; products must be moved or deleted first.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.categories.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrCategoryNotFound
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}

// GetByID retrieves a category by ID.
func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// List retrieves all categories.
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}
