// Package metadata stores the client's session as key/value pairs in the
// local SQLite database.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyUsername     = "username"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
