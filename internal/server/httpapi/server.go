// Package httpapi serves the journal's JSON API over chi.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leeya018/gratitudes/internal/logging"
	"github.com/leeya018/gratitudes/internal/server/metrics"
	"github.com/leeya018/gratitudes/internal/server/models"
	"github.com/leeya018/gratitudes/internal/server/services"
)

const (
	shutdownTimeout = 10 * time.Second
	// maxJSONBody bounds non-audio request bodies.
	maxJSONBody = 64 << 10
)

// UserService is the identity provider used by the auth endpoints and middleware.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	UserIDFromAccessToken(token string) (string, error)
}

// GratitudeService is the daily journal.
type GratitudeService interface {
	Add(ctx context.Context, userID, text string) (int, error)
	CountToday(ctx context.Context, userID string) int
	Today(ctx context.Context, userID string) (time.Time, []*models.Gratitude)
	ForDate(ctx context.Context, userID string, day time.Time) []*models.Gratitude
	Dates(ctx context.Context, userID string) []time.Time
	Limit() int
}

// SentenceService manages affirmations.
type SentenceService interface {
	Create(ctx context.Context, userID, text string) (*models.Sentence, error)
	List(ctx context.Context, userID string) ([]*models.Sentence, error)
	UpdateText(ctx context.Context, userID, id, text string) (*models.Sentence, error)
	AttachAudio(ctx context.Context, userID, id, payload string) (*models.Sentence, error)
	Audio(ctx context.Context, userID, id string) ([]byte, string, error)
	AudioURL(ctx context.Context, s *models.Sentence) (string, error)
	Delete(ctx context.Context, userID, id string) error
}

// Options configures a Server.
type Options struct {
	Address       string
	RateLimitRPS  float64
	MaxAudioBytes int64
}

type Server struct {
	opts       Options
	users      UserService
	gratitudes GratitudeService
	sentences  SentenceService
	metrics    *metrics.Metrics
	limiter    *RateLimiter
	logger     logging.Logger
}

func NewServer(opts Options, l logging.Logger, m *metrics.Metrics, us UserService, gs GratitudeService, ss SentenceService) *Server {
	s := &Server{
		opts:       opts,
		users:      us,
		gratitudes: gs,
		sentences:  ss,
		metrics:    m,
		logger:     l.With("module", "http_server"),
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = NewRateLimiter(opts.RateLimitRPS, int(opts.RateLimitRPS)+1)
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)
	r.Use(s.accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(s.rateLimit).Post("/register", s.register)
			r.With(s.rateLimit).Post("/login", s.login)
			r.Post("/refresh", s.refresh)
			r.Post("/logout", s.logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Route("/gratitudes", func(r chi.Router) {
				r.Get("/count", s.gratitudeCount)
				r.Get("/today", s.gratitudesToday)
				r.Get("/dates", s.gratitudeDates)
				r.Get("/{date}", s.gratitudesForDate)
				r.With(s.rateLimit).Post("/", s.addGratitude)
			})

			r.Route("/sentences", func(r chi.Router) {
				r.Get("/", s.listSentences)
				r.With(s.rateLimit).Post("/", s.createSentence)
				r.With(s.rateLimit).Patch("/{id}", s.updateSentence)
				r.With(s.rateLimit).Delete("/{id}", s.deleteSentence)
				r.With(s.rateLimit).Put("/{id}/audio", s.putSentenceAudio)
				r.Get("/{id}/audio", s.getSentenceAudio)
			})
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.limiter != nil {
		go s.limiter.RunCleanup(ctx, time.Minute, 10*time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
