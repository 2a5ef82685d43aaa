// Package lifecycle holds shared timeouts for fx lifecycle hooks.
package lifecycle

import "time"

// DefaultTimeout bounds startup and shutdown work such as DB pings and server drains.
const DefaultTimeout = 10 * time.Second
