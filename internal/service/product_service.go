package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/manhcun265/LVM-shop-manager/internal/database"
	"github.com/manhcun265/LVM-shop-manager/internal/domain"
	"github.com/manhcun265/LVM-shop-manager/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNegativePrice = fmt.Errorf("price must not be negative: %w", domain.ErrInvalidArgument)

// ProductInput carries the caller-supplied fields for create and update.
// ImageURLs fully replaces the product's image set on every call.
type ProductInput struct {
	Name         string
	Price        float64
	CategoryID   uuid.UUID
	Detail       string
	ImageURLs    []string
	ActingUserID uuid.UUID
}

// ProductService enacts all state-changing operations on products. Every
// operation runs in one transaction and appends exactly one audit entry;
// either both the state change and the entry commit or neither does.
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) error
	Delete(ctx context.Context, id, actingUserID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus, actingUserID uuid.UUID) error
}

type productService struct {
	tx         database.TxRunner
	products   repository.ProductRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	images     repository.ProductImageRepository
	logs       repository.StatusLogRepository
	logger     *zap.Logger
}

// NewProductService creates a new instance of ProductService.
func NewProductService(
	tx database.TxRunner,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	images repository.ProductImageRepository,
	logs repository.StatusLogRepository,
	logger *zap.Logger,
) ProductService {
	return &productService{
		tx:         tx,
		products:   products,
		categories: categories,
		users:      users,
		images:     images,
		logs:       logs,
		logger:     logger,
	}
}

// Create persists a new product with its image set and a CREATED audit
// entry, after validating the category and acting user references.
func (s *productService) Create(ctx context.Context, input ProductInput) (uuid.UUID, error) {
	if input.Price < 0 {
		return uuid.Nil, ErrNegativePrice
	}

	now := time.Now()
	product := &domain.Product{
		ID:         uuid.New(),
		Name:       input.Name,
		Price:      input.Price,
		Status:     domain.StatusActive,
		CategoryID: input.CategoryID,
		Detail:     input.Detail,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.checkCategoryExists(ctx, tx, input.CategoryID); err != nil {
			return err
		}
		if err := s.checkUserExists(ctx, tx, input.ActingUserID); err != nil {
			return err
		}

		if err := s.products.WithTx(tx).Create(ctx, product); err != nil {
			return err
		}

		if err := s.images.WithTx(tx).Replace(ctx, product.ID, input.ImageURLs); err != nil {
			return err
		}

		return s.appendLog(ctx, tx, product.ID, input.ActingUserID, domain.LogCreated, now)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("user_id", input.ActingUserID.String()),
	)
	return product.ID, nil
}

// Update overwrites name, price, category and detail of an existing
// product, replaces its image set and appends an UPDATED audit entry.
// The product status is untouched by this operation.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) error {
	if input.Price < 0 {
		return ErrNegativePrice
	}

	err := s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		products := s.products.WithTx(tx)

		product, err := products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checkCategoryExists(ctx, tx, input.CategoryID); err != nil {
			return err
		}
		if err := s.checkUserExists(ctx, tx, input.ActingUserID); err != nil {
			return err
		}

		now := time.Now()
		product.Name = input.Name
		product.Price = input.Price
		product.CategoryID = input.CategoryID
		product.Detail = input.Detail
		product.UpdatedAt = now

		if err := products.Update(ctx, product); err != nil {
			return err
		}

		if err := s.images.WithTx(tx).Replace(ctx, id, input.ImageURLs); err != nil {
			return err
		}

		return s.appendLog(ctx, tx, id, input.ActingUserID, domain.LogUpdated, now)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Product updated", zap.String("product_id", id.String()))
	return nil
}

// Delete appends a DELETED audit entry and then removes the product. The
// entry is written first, while the product row still exists; it remains
// retrievable after the deletion because the log holds a soft reference.
func (s *productService) Delete(ctx context.Context, id, actingUserID uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		products := s.products.WithTx(tx)

		exists, err := products.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return repository.ErrProductNotFound
		}
		if err := s.checkUserExists(ctx, tx, actingUserID); err != nil {
			return err
		}

		if err := s.appendLog(ctx, tx, id, actingUserID, domain.LogDeleted, time.Now()); err != nil {
			return err
		}

		return products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Product deleted",
		zap.String("product_id", id.String()),
		zap.String("user_id", actingUserID.String()),
	)
	return nil
}

// UpdateStatus appends an audit entry labeled with the new status and then
// persists the status change. No transition restrictions apply: any status
// may move to any other status.
func (s *productService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProductStatus, actingUserID uuid.UUID) error {
	if _, err := domain.ParseProductStatus(string(status)); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		products := s.products.WithTx(tx)

		exists, err := products.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return repository.ErrProductNotFound
		}
		if err := s.checkUserExists(ctx, tx, actingUserID); err != nil {
			return err
		}

		if err := s.appendLog(ctx, tx, id, actingUserID, string(status), time.Now()); err != nil {
			return err
		}

		return products.UpdateStatus(ctx, id, status)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Product status updated",
		zap.String("product_id", id.String()),
		zap.String("status", string(status)),
	)
	return nil
}

func (s *productService) checkCategoryExists(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	exists, err := s.categories.WithTx(tx).ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrCategoryNotFound
	}
	return nil
}

func (s *productService) checkUserExists(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	exists, err := s.users.WithTx(tx).ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrUserNotFound
	}
	return nil
}

func (s *productService) appendLog(ctx context.Context, tx *sql.Tx, productID, userID uuid.UUID, status string, at time.Time) error {
	return s.logs.WithTx(tx).Append(ctx, &domain.ProductStatusLog{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    &userID,
		Status:    status,
		LoggedAt:  at,
	})
}
