// Package gratitudes persists daily gratitude entries as a flat collection
// keyed by user and calendar day.
package gratitudes

import (
	"context"
	"time"

	"github.com/leeya018/gratitudes/internal/server/models"
)

// Repository stores and queries daily entries. Days are calendar dates;
// only their year, month and day are used.
type Repository interface {
	// LockDay serialises writers for (userID, day) until the surrounding
	// transaction ends. It must run inside a transaction.
	LockDay(ctx context.Context, userID string, day time.Time) error
	CountForDay(ctx context.Context, userID string, day time.Time) (int, error)
	Create(ctx context.Context, g *models.Gratitude) (*models.Gratitude, error)
	// ListForDay returns the day's entries oldest first.
	ListForDay(ctx context.Context, userID string, day time.Time) ([]*models.Gratitude, error)
	// Dates returns the distinct days holding entries, newest first.
	Dates(ctx context.Context, userID string) ([]time.Time, error)
}
