// Package users declares and implements persistence for identity-provider
// accounts.
package users

import (
	"context"

	"github.com/leeya018/gratitudes/internal/server/models"
)

// Repository stores user accounts.
type Repository interface {
	// Create inserts user and fills in its ID and CreatedAt. A taken
	// username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound when no such user exists.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
