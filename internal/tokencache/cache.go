// Package tokencache tracks refresh token liveness.
//
// The key is the refresh token's signed string, the value is a marker
// whose mere existence proves the token is still usable. Entries expire
// by TTL only, nothing evicts them explicitly.
package tokencache

import (
	"context"
	"time"
)

// Cache is the liveness store contract.
// Absence of a key is a normal outcome, not an error.
type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (value string, found bool, err error)
}

// LivenessMarker is the value stored for every live refresh token
const LivenessMarker = "1"
