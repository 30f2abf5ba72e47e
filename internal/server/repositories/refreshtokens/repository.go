// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/leeya018/gratitudes/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find looks up a refresh token by its opaque token string.
	// It returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes the user's tokens that expired before t.
	DeleteExpired(ctx context.Context, userID string, t time.Time) (int64, error)
}
