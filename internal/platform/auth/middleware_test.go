package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSigningKey = []byte("test-secret-key-for-unit-tests-only")

func createTestToken(t *testing.T, claims Claims, key []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return tokenStr
}

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, header string, handler echo.HandlerFunc) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return mw(handler)(e.NewContext(req, rec))
}

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected HTTP %d error, got nil", code)
	}
	httpErr, isHTTP := err.(*echo.HTTPError)
	if !isHTTP {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != code {
		t.Errorf("expected %d, got %d", code, httpErr.Code)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	err := runMiddleware(t, JWTMiddleware(JWTConfig{SigningKey: testSigningKey}), "", ok)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestJWTMiddleware_InvalidFormat(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "Token abc123"},
		{"missing token", "Bearer"},
		{"empty value", "Bearer "},
		{"basic auth", "Basic dXNlcjpwYXNz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runMiddleware(t, JWTMiddleware(JWTConfig{SigningKey: testSigningKey}), tt.header, ok)
			expectStatus(t, err, http.StatusUnauthorized)
		})
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	tokenStr := createTestToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{RoleRegistrar},
	}, testSigningKey)

	var uid string
	var roles []string
	err := runMiddleware(t, JWTMiddleware(JWTConfig{SigningKey: testSigningKey}), "Bearer "+tokenStr, func(c echo.Context) error {
		uid = UserIDFromContext(c.Request().Context())
		roles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != "user-123" {
		t.Errorf("expected user-123, got %s", uid)
	}
	if len(roles) != 1 || roles[0] != RoleRegistrar {
		t.Errorf("expected [registrar], got %v", roles)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	tokenStr := createTestToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}, testSigningKey)

	err := runMiddleware(t, JWTMiddleware(JWTConfig{SigningKey: testSigningKey}), "Bearer "+tokenStr, ok)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestJWTMiddleware_NoExpiry(t *testing.T) {
	tokenStr := createTestToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
	}, testSigningKey)

	err := runMiddleware(t, JWTMiddleware(JWTConfig{SigningKey: testSigningKey}), "Bearer "+tokenStr, ok)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	tokenStr := createTestToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, []byte("another-key"))

	err := runMiddleware(t, JWTMiddleware(JWTConfig{SigningKey: testSigningKey}), "Bearer "+tokenStr, ok)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestJWTMiddleware_IssuerMismatch(t *testing.T) {
	tokenStr := createTestToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSigningKey)

	err := runMiddleware(t, JWTMiddleware(JWTConfig{SigningKey: testSigningKey, Issuer: "docsched"}), "Bearer "+tokenStr, ok)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestDevAuthMiddleware(t *testing.T) {
	var roles []string
	err := runMiddleware(t, DevAuthMiddleware(), "", func(c echo.Context) error {
		roles = RolesFromContext(c.Request().Context())
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roles) != 1 || roles[0] != RoleAdmin {
		t.Errorf("expected admin role, got %v", roles)
	}
}
