package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func callWithRoles(roles []string, mw echo.MiddlewareFunc) (int, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if roles != nil {
		req = req.WithContext(WithIdentity(context.Background(), "u", roles))
	}
	rec := httptest.NewRecorder()
	err := mw(ok)(e.NewContext(req, rec))
	return rec.Code, err
}

func TestRequireRole_Allowed(t *testing.T) {
	code, err := callWithRoles([]string{RolePhysician}, RequireRole(RolePhysician, RoleNurse))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
}

func TestRequireRole_AdminAlwaysAllowed(t *testing.T) {
	_, err := callWithRoles([]string{RoleAdmin}, RequireRole(RoleRegistrar))
	if err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	_, err := callWithRoles([]string{RoleNurse}, RequireRole(RoleRegistrar, RolePhysician))
	expectStatus(t, err, http.StatusForbidden)
}

func TestRequireRole_NoIdentity(t *testing.T) {
	_, err := callWithRoles(nil, RequireRole(RoleNurse))
	expectStatus(t, err, http.StatusForbidden)
}
