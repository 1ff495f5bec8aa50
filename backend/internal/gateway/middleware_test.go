package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"neurocampus/backend/internal/shared"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validClaims() Claims {
	return Claims{
		UserID: "teacher-001",
		Name:   "Grace Hopper",
		Email:  "teacher@example.com",
		Role:   shared.RoleTeacher,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func runMiddleware(t *testing.T, token string) (*httptest.ResponseRecorder, shared.Principal, bool) {
	t.Helper()

	var principal shared.Principal
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, found = shared.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/courses/mine", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()

	AuthMiddleware(testSecret)(next).ServeHTTP(rec, r)
	return rec, principal, found
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		rec, principal, found := runMiddleware(t, signToken(t, validClaims(), testSecret))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !found {
			t.Fatal("principal not attached to context")
		}
		if principal.ID != "teacher-001" || principal.Role != shared.RoleTeacher {
			t.Errorf("unexpected principal: %+v", principal)
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		rec, _, found := runMiddleware(t, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if found {
			t.Error("handler ran without a token")
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		rec, _, _ := runMiddleware(t, signToken(t, validClaims(), "other-secret"))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

		rec, _, _ := runMiddleware(t, signToken(t, claims, testSecret))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("MissingClaims", func(t *testing.T) {
		claims := validClaims()
		claims.UserID = ""

		rec, _, _ := runMiddleware(t, signToken(t, claims, testSecret))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("InvalidRole", func(t *testing.T) {
		claims := validClaims()
		claims.Role = "superuser"

		rec, _, _ := runMiddleware(t, signToken(t, claims, testSecret))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
