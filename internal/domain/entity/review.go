// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's rating of a product. At most one review exists per
// (user, product) pair, enforced by a unique constraint in storage.
type Review struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the review.
	UserID    uuid.UUID // The reviewing user.
	ProductID uuid.UUID // The reviewed product.
	Rating    int       // Star rating, 1 to 5 inclusive.
	Comment   string    // Optional free-text comment.
	CreatedAt time.Time // Timestamp of when this review was created.
	UpdatedAt time.Time // Timestamp of the last modification.
}

// RatingIsValid reports whether the rating is within the allowed 1..5 range.
func (r *Review) RatingIsValid() bool {
	return r.Rating >= 1 && r.Rating <= 5
}
