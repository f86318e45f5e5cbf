package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestProperty_RequestsWithoutTokenAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header get 401", prop.ForAll(
		func(pathSuffix string, method string) bool {
			logger := zap.NewNop()
			mw := AuthMiddleware("test-secret", logger)

			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			path := "/" + pathSuffix
			if path == "/" {
				path = "/products"
			}

			req := httptest.NewRequest(method, path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestExpiredTokenRejected(t *testing.T) {
	logger := zap.NewNop()
	secret := "test-secret"
	mw := AuthMiddleware(secret, logger)

	tokenString := signToken(t, secret, jwt.MapClaims{
		"user_id": "4b7a99b5-97c2-4f8e-9c15-1f1f6f7a1e11",
		"role":    "USER",
		"exp":     time.Now().Add(-1 * time.Hour).Unix(),
	})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/products", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestValidTokenPutsClaimsOnContext(t *testing.T) {
	logger := zap.NewNop()
	secret := "test-secret"
	mw := AuthMiddleware(secret, logger)

	userID := "4b7a99b5-97c2-4f8e-9c15-1f1f6f7a1e11"
	tokenString := signToken(t, secret, jwt.MapClaims{
		"user_id": userID,
		"role":    "ADMIN",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	var gotID, gotRole string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
		gotRole, _ = GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/products", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotID != userID {
		t.Errorf("expected user_id %q on context, got %q", userID, gotID)
	}
	if gotRole != "ADMIN" {
		t.Errorf("expected role ADMIN on context, got %q", gotRole)
	}
}

func TestTokenSignedWithWrongSecretRejected(t *testing.T) {
	logger := zap.NewNop()
	mw := AuthMiddleware("right-secret", logger)

	tokenString := signToken(t, "wrong-secret", jwt.MapClaims{
		"user_id": "4b7a99b5-97c2-4f8e-9c15-1f1f6f7a1e11",
		"role":    "USER",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/products", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for forged token, got %d", w.Code)
	}
}

func TestRequireAdminBlocksNonAdmins(t *testing.T) {
	logger := zap.NewNop()
	secret := "test-secret"

	cases := []struct {
		role     string
		wantCode int
	}{
		{"ADMIN", http.StatusOK},
		{"USER", http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tc := range cases {
		tokenString := signToken(t, secret, jwt.MapClaims{
			"user_id": "4b7a99b5-97c2-4f8e-9c15-1f1f6f7a1e11",
			"role":    tc.role,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		handler := AuthMiddleware(secret, logger)(RequireAdmin(logger)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}),
		))

		req := httptest.NewRequest("DELETE", "/categories/1", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != tc.wantCode {
			t.Errorf("role %q: expected %d, got %d", tc.role, tc.wantCode, w.Code)
		}
	}
}
