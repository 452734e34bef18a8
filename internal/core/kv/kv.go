// Package kv defines the small persistent record store used for expiring
// answers such as accessions UniProt reported as missing.
package kv

import (
	"context"
	"encoding/json"
	"time"
)

// Record is a stored value with its expiry. ExpiresAt is nil for records
// that never expire.
type Record struct {
	Key       string
	Value     json.RawMessage
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

// KV stores JSON values under string keys. Expired records behave as absent.
type KV interface {
	// Put stores value under key. A ttl of zero or less keeps it forever.
	Put(ctx context.Context, key string, value any, ttl time.Duration) error
	// Lookup decodes the live value of key into dest and reports whether
	// one existed.
	Lookup(ctx context.Context, key string, dest any) (bool, error)
	// Remove deletes key and reports whether it existed.
	Remove(ctx context.Context, key string) (bool, error)
	// Scan lists live records whose key starts with prefix, in key order.
	Scan(ctx context.Context, prefix string) ([]Record, error)
}
