// Package entity contains the core business objects of the project.
package entity

// ShippingMethod is a named delivery option with a flat cost in minor
// currency units. The available methods come from configuration; the chosen
// method's name and cost are frozen into the order at checkout.
type ShippingMethod struct {
	Name string // e.g. "regular", "express".
	Cost int64  // Flat shipping cost.
}
