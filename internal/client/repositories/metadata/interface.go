// Package metadata is a small key/value table in the local database. The
// session layer keeps the bearer token and the authorized book ids here.
package metadata

import "context"

type Repository interface {
	// Get returns the value for key or common.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetAll writes every pair in one transaction.
	SetAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
