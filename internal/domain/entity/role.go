// Package entity contains the core business objects of the project.
package entity

import (
	"slices"

	"github.com/google/uuid"
)

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleUser indicates a regular shopper role.
	RoleUser Role = "user"
	// RoleAdmin indicates a seller/administrator role with access to the dashboard.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string for JWT compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RolesFromStrings converts []string to Roles, filtering out invalid role strings.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(s)
		if role.IsValid() {
			result = append(result, role)
		}
	}

	return result
}

// Principal is the authenticated caller of a core operation.
// It is extracted from the access token by the delivery layer and passed
// explicitly into every usecase, never read from ambient state.
type Principal struct {
	UserID uuid.UUID // The authenticated user's ID.
	Roles  Roles     // The roles granted to this user.
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Roles.Contains(RoleAdmin)
}
