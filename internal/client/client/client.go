package client

import (
	"context"

	"github.com/leeya018/gratitudes/internal/client/models"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	SetTokens(access, refresh string)
	Tokens() (access, refresh string)
	OnTokensRefreshed(f func(models.TokenPair))

	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*models.TokenPair, error)
	Logout(ctx context.Context) error

	Count(ctx context.Context) (int, error)
	AddGratitude(ctx context.Context, text string) (int, error)
	Today(ctx context.Context) (*models.Today, error)
	Dates(ctx context.Context) ([]string, error)
	ForDate(ctx context.Context, date string) ([]*models.Gratitude, error)

	Sentences(ctx context.Context) ([]*models.Sentence, error)
	CreateSentence(ctx context.Context, text string) (*models.Sentence, error)
	ComposeSentence(ctx context.Context, target, emotions, characters string) (*models.Sentence, error)
	UpdateSentence(ctx context.Context, id, text string) (*models.Sentence, error)
	DeleteSentence(ctx context.Context, id string) error
	AttachAudio(ctx context.Context, id, audioData string) (*models.Sentence, error)
	// Audio returns the stored clip; a body over limit bytes fails with
	// common.ErrAudioTooLarge. A limit of zero or less is unbounded.
	Audio(ctx context.Context, id string, limit int64) ([]byte, error)
}
