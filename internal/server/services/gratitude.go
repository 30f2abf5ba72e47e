package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leeya018/gratitudes/internal/common"
	"github.com/leeya018/gratitudes/internal/dbx"
	"github.com/leeya018/gratitudes/internal/logging"
	"github.com/leeya018/gratitudes/internal/server/models"
	"github.com/leeya018/gratitudes/internal/server/repositories/repomanager"
)

// MaxGratitudeLength is the longest entry accepted, in characters.
const MaxGratitudeLength = 100

// GratitudeService records daily entries and enforces the per-day cap.
//
// Read operations never fail: repository errors are logged and reported as
// an empty result so the journal stays usable while storage is degraded.
type GratitudeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	limit       int
	loc         *time.Location
	now         func() time.Time
	log         logging.Logger
}

// NewGratitudeService builds the service. limit is the per-day cap and loc
// decides where a day starts and ends.
func NewGratitudeService(db *sql.DB, m repomanager.RepositoryManager, limit int, loc *time.Location, log logging.Logger) *GratitudeService {
	if loc == nil {
		loc = time.UTC
	}
	return &GratitudeService{
		db:          db,
		repomanager: m,
		limit:       limit,
		loc:         loc,
		now:         time.Now,
		log:         log,
	}
}

// Limit returns the configured per-day cap.
func (s *GratitudeService) Limit() int { return s.limit }

// CurrentDay returns today's calendar date in the service location as
// midnight UTC.
func (s *GratitudeService) CurrentDay() time.Time {
	return truncateDay(s.now().In(s.loc))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(common.DateLayout, value)
	if err != nil {
		return time.Time{}, common.NewValidationError("invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}

// Add stores a new entry for today and returns today's count including it.
// The count check and insert run in one transaction holding a per-(user, day)
// lock, so concurrent submissions cannot push the day past the cap.
func (s *GratitudeService) Add(ctx context.Context, userID, text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, common.NewValidationError("Gratitude is required")
	}
	if utf8.RuneCountInString(text) > MaxGratitudeLength {
		return 0, common.NewValidationError("Gratitude must be at most 100 characters")
	}

	day := s.CurrentDay()
	var count int

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Gratitudes(tx)

		if err := repo.LockDay(ctx, userID, day); err != nil {
			return err
		}
		n, err := repo.CountForDay(ctx, userID, day)
		if err != nil {
			return err
		}
		if n >= s.limit {
			count = n
			return common.ErrLimitReached
		}
		if _, err := repo.Create(ctx, &models.Gratitude{UserID: userID, Text: text, Day: day}); err != nil {
			return err
		}
		count = n + 1
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrLimitReached) {
			return count, err
		}
		s.log.Error(ctx, "add gratitude failed", "user_id", userID, "error", err)
		return 0, common.ErrorInternal
	}

	s.log.Info(ctx, "gratitude added", "user_id", userID, "count", count)
	return count, nil
}

// CountToday returns the number of entries for today.
func (s *GratitudeService) CountToday(ctx context.Context, userID string) int {
	n, err := s.repomanager.Gratitudes(s.db).CountForDay(ctx, userID, s.CurrentDay())
	if err != nil {
		s.log.Warn(ctx, "count gratitudes failed", "user_id", userID, "error", err)
		return 0
	}
	return n
}

// Today returns today's date and its entries in insertion order.
func (s *GratitudeService) Today(ctx context.Context, userID string) (time.Time, []*models.Gratitude) {
	day := s.CurrentDay()
	return day, s.ForDate(ctx, userID, day)
}

// ForDate returns the entries recorded on day in insertion order.
func (s *GratitudeService) ForDate(ctx context.Context, userID string, day time.Time) []*models.Gratitude {
	list, err := s.repomanager.Gratitudes(s.db).ListForDay(ctx, userID, truncateDay(day))
	if err != nil {
		s.log.Warn(ctx, "list gratitudes failed", "user_id", userID, "day", day.Format(common.DateLayout), "error", err)
		return nil
	}
	return list
}

// Dates returns the days holding entries, newest first.
func (s *GratitudeService) Dates(ctx context.Context, userID string) []time.Time {
	dates, err := s.repomanager.Gratitudes(s.db).Dates(ctx, userID)
	if err != nil {
		s.log.Warn(ctx, "list gratitude dates failed", "user_id", userID, "error", err)
		return nil
	}
	return dates
}
