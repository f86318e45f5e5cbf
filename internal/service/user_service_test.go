package service

import (
	"context"
	"errors"
	"testing"

	"github.com/manhcun265/LVM-shop-manager/internal/domain"
	"github.com/manhcun265/LVM-shop-manager/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func newUserFixture() (UserService, *mockUserRepository) {
	users := newMockUserRepository()
	return NewUserService(users, testJWTSecret, zap.NewNop()), users
}

func TestProperty_RegistrationHashesPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are stored as bcrypt hashes, never plaintext", prop.ForAll(
		func(username string, password string) bool {
			service, _ := newUserFixture()
			ctx := context.Background()

			user, err := service.Register(ctx, username, username+"@example.com", password)
			if err != nil {
				return true
			}

			if user.PasswordHash == password {
				t.Logf("FAIL: password stored as plaintext for %s", username)
				return false
			}

			return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 && len(s) <= 72 }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRegisterAssignsUserRole(t *testing.T) {
	service, _ := newUserFixture()

	user, err := service.Register(context.Background(), "alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("expected role USER on registration, got %s", user.Role)
	}
}

func TestRegisterRejectsTakenIdentifiers(t *testing.T) {
	service, _ := newUserFixture()
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := service.Register(ctx, "alice", "other@example.com", "s3cret")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	_, err = service.Register(ctx, "bob", "alice@example.com", "s3cret")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Error("taken identifiers must carry the conflict kind")
	}
}

func TestLoginIssuesTokenWithIdentityClaims(t *testing.T) {
	service, _ := newUserFixture()
	ctx := context.Background()

	user, err := service.Register(ctx, "alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, loggedIn, err := service.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Error("login returned the wrong user")
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != user.ID {
		t.Error("token user_id claim does not match the account")
	}
	if claims.Role != string(domain.RoleUser) {
		t.Errorf("token role claim mismatch: %s", claims.Role)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service, _ := newUserFixture()
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := service.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	// Unknown email yields the same error as a wrong password so the
	// response does not reveal which accounts exist.
	if _, _, err := service.Login(ctx, "nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestDeleteProtectsAdminAccounts(t *testing.T) {
	service, users := newUserFixture()
	ctx := context.Background()

	adminID := users.add(domain.RoleAdmin)

	err := service.Delete(ctx, adminID)
	if !errors.Is(err, ErrAdminProtected) {
		t.Fatalf("expected ErrAdminProtected, got %v", err)
	}
	if exists, _ := users.ExistsByID(ctx, adminID); !exists {
		t.Error("admin account must survive the blocked deletion")
	}

	userID := users.add(domain.RoleUser)
	if err := service.Delete(ctx, userID); err != nil {
		t.Fatalf("Delete of regular user failed: %v", err)
	}
	if exists, _ := users.ExistsByID(ctx, userID); exists {
		t.Error("regular user still exists after deletion")
	}
}

func TestUpdateRole(t *testing.T) {
	service, users := newUserFixture()
	ctx := context.Background()

	id := users.add(domain.RoleUser)

	if err := service.UpdateRole(ctx, id, domain.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole failed: %v", err)
	}
	user, _ := users.FindByID(ctx, id)
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected role ADMIN after update, got %s", user.Role)
	}

	if err := service.UpdateRole(ctx, id, domain.Role("OWNER")); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("expected invalid-argument for unknown role, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	service, users := newUserFixture()
	ctx := context.Background()

	id := users.add(domain.RoleUser)

	if err := service.UpdateProfile(ctx, id, "renamed", "renamed@example.com"); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	user, _ := users.FindByID(ctx, id)
	if user.Username != "renamed" || user.Email != "renamed@example.com" {
		t.Errorf("profile update not persisted: %+v", user)
	}

	err := service.UpdateProfile(ctx, uuid.New(), "ghost", "ghost@example.com")
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
