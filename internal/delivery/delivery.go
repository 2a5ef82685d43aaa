// Package delivery defines the contract for transport servers (HTTP and others).
package delivery

import "context"

// Delivery is a long-running transport server managed by the application lifecycle.
type Delivery interface {
	// Serve blocks, accepting and handling requests until shutdown.
	Serve(ctx context.Context) error
}
