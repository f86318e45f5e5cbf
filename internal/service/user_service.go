package service

import (
	"context"
	"fmt"
	"time"

	"github.com/manhcun265/LVM-shop-manager/internal/domain"
	"github.com/manhcun265/LVM-shop-manager/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing.
	BcryptCost = 10

	// AccessTokenExpiration bounds how long an issued token is valid.
	AccessTokenExpiration = 15 * time.Minute
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrUsernameTaken      = fmt.Errorf("username already taken: %w", domain.ErrConflict)
	ErrEmailTaken         = fmt.Errorf("email already in use: %w", domain.ErrConflict)
	// ErrAdminProtected guards admin accounts from deletion.
	ErrAdminProtected = fmt.Errorf("admin accounts cannot be deleted: %w", domain.ErrConflict)
)

// UserService defines the interface for account business logic. Besides
// registration and login it acts as the identity provider for product
// lifecycle attribution: a token resolves to a user ID and role.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Claims represents the JWT claims carried by access tokens.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

type userService struct {
	users     repository.UserRepository
	jwtSecret string
	logger    *zap.Logger
}

// NewUserService creates a new instance of UserService.
func NewUserService(users repository.UserRepository, jwtSecret string, logger *zap.Logger) UserService {
	return &userService{
		users:     users,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates a new account with a hashed password and the USER
// role. Username and email must both be free.
func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedBytes),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login authenticates by email and password and issues an access token.
func (s *userService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return token, user, nil
}

// GetByID retrieves a user by ID.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// List retrieves all users.
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// UpdateProfile overwrites username and email of an existing user.
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.Username = username
	user.Email = email

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User profile updated", zap.String("user_id", id.String()))
	return nil
}

// UpdateRole changes a user's role. The role value has already been
// validated at the boundary; this re-checks as a safety net.
func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	if _, err := domain.ParseRole(string(role)); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.Role = role

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User role updated",
		zap.String("user_id", id.String()),
		zap.String("role", string(role)),
	)
	return nil
}

// Delete removes a user. Accounts with the ADMIN role are protected and
// cannot be deleted.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == domain.RoleAdmin {
		return ErrAdminProtected
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

// generateAccessToken issues an HS256 JWT carrying user ID and role.
func (s *userService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
