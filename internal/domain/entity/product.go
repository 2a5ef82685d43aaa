// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item in the catalog.
// Price is held in minor currency units so totals stay exact.
// Stock must never go below zero; the checkout transaction enforces this
// at decrement time, not just at display time.
type Product struct {
	ID          uuid.UUID  // The Global Unique Identifier (GUID) for the product.
	SellerID    uuid.UUID  // The admin/seller account that owns this product.
	CategoryID  *uuid.UUID // Optional weak reference to a Category; nil when uncategorized.
	Name        string     // The product's display name.
	Description string     // A longer free-text description.
	Price       int64      // Current unit price in minor currency units.
	Stock       int        // Units currently available for purchase. Never negative.
	ImageURL    string     // External reference to the product image; storage is out of scope.
	CreatedAt   time.Time  // Timestamp of when this product was created.
	UpdatedAt   time.Time  // Timestamp of the last modification.
}

// Category groups products for browsing. Products hold a weak reference:
// deleting a category detaches its products, it never deletes them.
type Category struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the category.
	Name      string    // The category's display name.
	CreatedAt time.Time // Timestamp of when this category was created.
}
