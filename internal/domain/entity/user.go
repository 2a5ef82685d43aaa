// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
// Roles are derived from which profiles exist: every account can shop, and an
// account with an AdminProfile additionally manages the seller/admin dashboard.
type User struct {
	ID           uuid.UUID     // The Global Unique Identifier (GUID) for the user.
	Email        string        // The user's primary contact email, used as the login identifier.
	Name         string        // The user's display name.
	AdminProfile *AdminProfile // Non-nil when this account holds the admin role.
	CreatedAt    time.Time     // Timestamp of when this user account was created.
	UpdatedAt    time.Time     // Timestamp of the last modification to this user's data.
}

// Roles returns the roles this account currently holds.
func (u *User) UserRoles() Roles {
	roles := Roles{RoleUser}
	if u.AdminProfile != nil {
		roles = append(roles, RoleAdmin)
	}

	return roles
}

// AdminProfile holds data specific to the seller/admin role.
type AdminProfile struct {
	UserID    uuid.UUID // Foreign Key that links this profile to a core User entity.
	StoreName string    // The name displayed on the seller's products.
	UpdatedAt time.Time // Timestamp of the last modification to this profile.
}
