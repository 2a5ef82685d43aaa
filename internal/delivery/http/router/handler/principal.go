// Package handler contains the HTTP handlers for the application.
package handler

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// principalOrAnonymous returns the authenticated principal when one is set,
// or a zero-value principal for unauthenticated requests on public routes.
func principalOrAnonymous(c echo.Context) entity.Principal {
	principal, ok := principalFromContext(c)
	if !ok {
		return entity.Principal{}
	}

	return principal
}

// principalFromContext rebuilds the authenticated principal from the values
// the auth middleware stored on the echo context.
func principalFromContext(c echo.Context) (entity.Principal, bool) {
	userID, ok := c.Get(middleware.KeyUserID).(uuid.UUID)
	if !ok {
		return entity.Principal{}, false
	}

	roles, _ := c.Get(middleware.KeyRoles).([]string)

	return entity.Principal{
		UserID: userID,
		Roles:  entity.RolesFromStrings(roles),
	}, true
}
