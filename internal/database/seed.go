package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/manhcun265/LVM-shop-manager/internal/config"
	"github.com/manhcun265/LVM-shop-manager/internal/domain"
	"github.com/manhcun265/LVM-shop-manager/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seed creates the default admin account and a starter category when the
// respective tables are empty. Safe to run on every startup.
func Seed(ctx context.Context, db *sql.DB, cfg config.SeedConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)

	existing, err := categories.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check categories: %w", err)
	}
	if len(existing) == 0 {
		category := &domain.Category{
			ID:          uuid.New(),
			Name:        "MobilePhones",
			Description: "Default starter category",
			CreatedAt:   time.Now(),
		}
		if err := categories.Create(ctx, category); err != nil {
			return fmt.Errorf("failed to seed category: %w", err)
		}
		logger.Info("Seeded starter category", zap.String("category_id", category.ID.String()))
	}

	hasAdmin, err := users.ExistsByUsername(ctx, cfg.AdminUsername)
	if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if !hasAdmin {
		if cfg.AdminPassword == "" {
			logger.Warn("Seed admin password not set, skipping admin account creation")
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := &domain.User{
			ID:           uuid.New(),
			Username:     cfg.AdminUsername,
			Email:        cfg.AdminEmail,
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
			CreatedAt:    time.Now(),
		}
		if err := users.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		logger.Info("Seeded admin account", zap.String("user_id", admin.ID.String()))
	}

	return nil
}
