// Package sentences persists affirmation sentences and the object-storage
// reference of their audio.
package sentences

import (
	"context"

	"github.com/leeya018/gratitudes/internal/server/models"
)

// Repository stores affirmation sentences. Every lookup is scoped to the
// owning user; rows of other users behave as missing and yield
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, s *models.Sentence) (*models.Sentence, error)
	// ListByUser returns the user's sentences, most recent first.
	ListByUser(ctx context.Context, userID string) ([]*models.Sentence, error)
	Get(ctx context.Context, userID, id string) (*models.Sentence, error)
	UpdateText(ctx context.Context, userID, id, text string) (*models.Sentence, error)
	SetAudio(ctx context.Context, userID, id, key, contentType string) (*models.Sentence, error)
	// Delete removes the sentence and returns the row as it was.
	Delete(ctx context.Context, userID, id string) (*models.Sentence, error)
}
