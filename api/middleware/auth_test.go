package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	pkgauth "github.com/firmarollers/b2b-backend/pkg/auth"
	"github.com/firmarollers/b2b-backend/pkg/config"
	"github.com/firmarollers/b2b-backend/pkg/enums"
	"github.com/firmarollers/b2b-backend/pkg/logger"
)

const testSecret = "unit-test-secret"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: testSecret, Issuer: "https://identity.test/auth/v1"}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func mintToken(t *testing.T, role enums.UserRole, customerID *uuid.UUID) string {
	t.Helper()

	now := time.Now().UTC()
	claims := pkgauth.AccessTokenClaims{
		Email: "compras@acme.example",
		AppMetadata: pkgauth.AppMetadata{
			Role:       role,
			CustomerID: customerID,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "https://identity.test/auth/v1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func TestAuthSeedsContext(t *testing.T) {
	customerID := uuid.New()
	var gotRole, gotCustomer string
	handler := Auth(testJWTConfig(), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = RoleFromContext(r.Context())
		gotCustomer = CustomerIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/portal/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleCustomer, &customerID))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if gotRole != enums.UserRoleCustomer.String() {
		t.Fatalf("expected customer role in context, got %q", gotRole)
	}
	if gotCustomer != customerID.String() {
		t.Fatalf("expected customer id in context, got %q", gotCustomer)
	}
}

func TestAuthRejectsMissingOrBadToken(t *testing.T) {
	handler := Auth(testJWTConfig(), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	for name, header := range map[string]string{
		"missing":   "",
		"empty":     "Bearer ",
		"malformed": "Bearer not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRequireRoleBlocksOtherRoles(t *testing.T) {
	handler := RequireRole(enums.UserRoleAdmin.String(), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req = req.WithContext(WithRole(req.Context(), enums.UserRoleCustomer.String()))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on admin route, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req = req.WithContext(WithRole(req.Context(), enums.UserRoleAdmin.String()))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin, got %d", w.Code)
	}
}
