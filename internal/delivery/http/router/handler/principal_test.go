package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestPrincipalFromContext(t *testing.T) {
	c, _ := newTestContext(t, "/")
	userID := uuid.New()
	c.Set(middleware.KeyUserID, userID)
	c.Set(middleware.KeyRoles, []string{"user", "admin"})

	principal, ok := principalFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, userID, principal.UserID)
	assert.True(t, principal.Roles.Contains(entity.RoleAdmin))
}

func TestPrincipalFromContext_Unauthenticated(t *testing.T) {
	c, _ := newTestContext(t, "/")

	_, ok := principalFromContext(c)
	assert.False(t, ok)

	// Public routes fall back to an anonymous principal
	principal := principalOrAnonymous(c)
	assert.Equal(t, uuid.Nil, principal.UserID)
	assert.Empty(t, principal.Roles)
}

func TestIntQueryParam(t *testing.T) {
	c, _ := newTestContext(t, "/products?page=3&page_size=garbage")

	assert.Equal(t, 3, intQueryParam(c, "page", 1))
	assert.Equal(t, 0, intQueryParam(c, "page_size", 0))
	assert.Equal(t, 1, intQueryParam(c, "missing", 1))
}

func TestHealthCheck(t *testing.T) {
	c, rec := newTestContext(t, "/health")

	err := HealthCheck(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
