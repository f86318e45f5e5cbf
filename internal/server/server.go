package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/manhcun265/LVM-shop-manager/internal/config"
	"github.com/manhcun265/LVM-shop-manager/internal/database"
	custommiddleware "github.com/manhcun265/LVM-shop-manager/internal/middleware"
	"github.com/manhcun265/LVM-shop-manager/internal/repository"
	"github.com/manhcun265/LVM-shop-manager/internal/service"
	"github.com/manhcun265/LVM-shop-manager/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: 100,
		Window:            time.Minute,
		KeyPrefix:         "ratelimit:api",
	}, logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Repositories
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewProductImageRepository(db)
	logRepo := repository.NewStatusLogRepository(db)

	// Services
	txRunner := database.NewTxRunner(db)
	productService := service.NewProductService(txRunner, productRepo, categoryRepo, userRepo, imageRepo, logRepo, logger)
	productQuery := service.NewProductQuery(productRepo, categoryRepo, imageRepo, logRepo)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, logger)
	userService := service.NewUserService(userRepo, cfg.JWT.Secret, logger)

	// Handlers
	productHandler := transport.NewProductHandler(productService, productQuery, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	userHandler := transport.NewUserHandler(userService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	productHandler.RegisterRoutes(router, authMiddleware)
	categoryHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	userHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
