package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leeya018/gratitudes/internal/client/client"
	"github.com/leeya018/gratitudes/internal/client/models"
	"github.com/leeya018/gratitudes/internal/common"
)

// MaxGratitudeLength matches the server's limit.
const MaxGratitudeLength = 100

type JournalService interface {
	Add(ctx context.Context, text string) (int, error)
	Today(ctx context.Context) (*models.Today, error)
	Count(ctx context.Context) (int, error)
	Dates(ctx context.Context) ([]string, error)
	ForDate(ctx context.Context, date string) ([]*models.Gratitude, error)
}

type journalService struct {
	client client.Client
}

func NewJournalService(c client.Client) JournalService {
	return &journalService{client: c}
}

// Add checks the entry locally before sending it so obvious mistakes do not
// cost a request.
func (s *journalService) Add(ctx context.Context, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, common.NewValidationError("Gratitude is required")
	}
	if utf8.RuneCountInString(text) > MaxGratitudeLength {
		return 0, common.NewValidationError("Gratitude must be at most 100 characters")
	}
	return s.client.AddGratitude(ctx, text)
}

func (s *journalService) Today(ctx context.Context) (*models.Today, error) {
	return s.client.Today(ctx)
}

func (s *journalService) Count(ctx context.Context) (int, error) {
	return s.client.Count(ctx)
}

func (s *journalService) Dates(ctx context.Context) ([]string, error) {
	return s.client.Dates(ctx)
}

// ForDate validates date as YYYY-MM-DD before asking the server.
func (s *journalService) ForDate(ctx context.Context, date string) ([]*models.Gratitude, error) {
	if _, err := time.Parse(common.DateLayout, date); err != nil {
		return nil, common.NewValidationError("invalid date, expected YYYY-MM-DD")
	}
	return s.client.ForDate(ctx, date)
}
