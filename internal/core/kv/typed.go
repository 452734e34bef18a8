package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Item is a decoded record of a Namespace.
type Item[T any] struct {
	Key       string
	Value     T
	ExpiresAt *time.Time
}

// Namespace is a typed view over the keys "name:*" of a KV.
type Namespace[T any] struct {
	store  KV
	prefix string
	ttl    time.Duration
}

// NewNamespace returns a view whose writes expire after ttl. A ttl of zero
// keeps records forever.
func NewNamespace[T any](store KV, name string, ttl time.Duration) *Namespace[T] {
	return &Namespace[T]{store: store, prefix: name + ":", ttl: ttl}
}

// Put stores value under key.
func (n *Namespace[T]) Put(ctx context.Context, key string, value T) error {
	return n.store.Put(ctx, n.prefix+key, value, n.ttl)
}

// Lookup returns the live value of key.
func (n *Namespace[T]) Lookup(ctx context.Context, key string) (T, bool, error) {
	var v T
	ok, err := n.store.Lookup(ctx, n.prefix+key, &v)
	return v, ok, err
}

// Remove deletes key and reports whether it existed.
func (n *Namespace[T]) Remove(ctx context.Context, key string) (bool, error) {
	return n.store.Remove(ctx, n.prefix+key)
}

// All decodes every live record of the namespace with the prefix stripped.
func (n *Namespace[T]) All(ctx context.Context) ([]Item[T], error) {
	recs, err := n.store.Scan(ctx, n.prefix)
	if err != nil {
		return nil, err
	}

	items := make([]Item[T], 0, len(recs))
	for _, r := range recs {
		var v T
		if err := json.Unmarshal(r.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", r.Key, err)
		}
		items = append(items, Item[T]{
			Key:       strings.TrimPrefix(r.Key, n.prefix),
			Value:     v,
			ExpiresAt: r.ExpiresAt,
		})
	}
	return items, nil
}
