// Package services contains the client's application services: the login
// session, the daily journal and affirmations.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/leeya018/gratitudes/internal/client/client"
	"github.com/leeya018/gratitudes/internal/client/models"
	"github.com/leeya018/gratitudes/internal/client/repositories/metadata"
	"github.com/leeya018/gratitudes/internal/common"
	"github.com/leeya018/gratitudes/internal/dbx"
	"github.com/leeya018/gratitudes/internal/logging"
)

// persistTimeout bounds saving refreshed tokens, which happens outside any
// caller's context.
const persistTimeout = 5 * time.Second

// AuthService owns the login session. Tokens live in the API client while
// the process runs and in the local metadata table between runs.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
	LoggedIn() bool
	Username() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	logger logging.Logger

	mu       sync.Mutex
	username string
}

func NewAuthService(c client.Client, db *sql.DB, logger logging.Logger) AuthService {
	a := &authService{client: c, db: db, logger: logger}
	c.OnTokensRefreshed(a.persistTokens)
	return a
}

func (a *authService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Register creates the account; it does not log in.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)
	return a.client.Register(ctx, username, string(password))
}

// Login authenticates and saves the session locally.
func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)

	pair, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return err
	}

	if err := a.saveSession(ctx, username, *pair); err != nil {
		a.client.SetTokens("", "")
		return fmt.Errorf("session saving error: %w", err)
	}

	a.mu.Lock()
	a.username = username
	a.mu.Unlock()
	return nil
}

func (a *authService) saveSession(ctx context.Context, username string, pair models.TokenPair) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return a.getMetadataRepo(tx).SetMany(ctx, map[string][]byte{
			metadata.KeyUsername:     []byte(username),
			metadata.KeyAccessToken:  []byte(pair.AccessToken),
			metadata.KeyRefreshToken: []byte(pair.RefreshToken),
		})
	})
}

// persistTokens stores a pair rotated by the client's transparent refresh.
func (a *authService) persistTokens(pair models.TokenPair) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return a.getMetadataRepo(tx).SetMany(ctx, map[string][]byte{
			metadata.KeyAccessToken:  []byte(pair.AccessToken),
			metadata.KeyRefreshToken: []byte(pair.RefreshToken),
		})
	})
	if err != nil {
		a.logger.Warn(ctx, "failed to persist refreshed tokens", "error", err)
	}
}

// Restore loads a saved session into the client. It reports false when no
// session is stored.
func (a *authService) Restore(ctx context.Context) (bool, error) {
	m, err := a.getMetadataRepo(a.db).List(ctx)
	if err != nil {
		return false, err
	}

	refresh := string(m[metadata.KeyRefreshToken])
	if refresh == "" {
		return false, nil
	}

	a.client.SetTokens(string(m[metadata.KeyAccessToken]), refresh)
	a.mu.Lock()
	a.username = string(m[metadata.KeyUsername])
	a.mu.Unlock()
	return true, nil
}

// Logout revokes the session on the server when reachable and always
// forgets it locally.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "server logout failed", "error", err)
	}

	a.mu.Lock()
	a.username = ""
	a.mu.Unlock()

	return a.getMetadataRepo(a.db).Clear(ctx)
}

func (a *authService) LoggedIn() bool {
	_, refresh := a.client.Tokens()
	return refresh != ""
}

func (a *authService) Username() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.username
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
