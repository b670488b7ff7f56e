// Package idgen generates identifiers for control-plane entities that need
// one outside the numeric Transport/Producer/Consumer ID space — request
// correlation IDs and trace IDs on the demo control channel.
package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// RequestID generates a correlation ID for a channel request, unique enough
// to match a response without a central counter.
func RequestID() string {
	return "req_" + uuid.New().String()
}

// TraceID generates a random trace identifier for requests that arrive
// without one already attached by an upstream span.
func TraceID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
