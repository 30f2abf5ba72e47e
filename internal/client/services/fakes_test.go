package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/leeya018/gratitudes/internal/client/client"
	"github.com/leeya018/gratitudes/internal/client/models"
	"github.com/leeya018/gratitudes/internal/common"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClient implements client.Client; unimplemented methods panic through
// the nil embedded interface.
type fakeClient struct {
	client.Client

	mu       sync.Mutex
	access   string
	refresh  string
	onTokens func(models.TokenPair)

	loginErr   error
	logoutErr  error
	registered []string
	passwords  []string

	added    []string
	addCount int
	forDates []string

	sentences []*models.Sentence
	deleted   []string
	deleteErr error
	attached  map[string]string
	audio     map[string][]byte
	audioErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{attached: map[string]string{}, audio: map[string][]byte{}}
}

func (f *fakeClient) SetTokens(access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access, f.refresh = access, refresh
}

func (f *fakeClient) Tokens() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access, f.refresh
}

func (f *fakeClient) OnTokensRefreshed(fn func(models.TokenPair)) { f.onTokens = fn }

func (f *fakeClient) Close() error                   { return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) Register(_ context.Context, username, password string) error {
	f.registered = append(f.registered, username)
	f.passwords = append(f.passwords, password)
	return nil
}

func (f *fakeClient) Login(_ context.Context, username, password string) (*models.TokenPair, error) {
	f.passwords = append(f.passwords, password)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	pair := &models.TokenPair{AccessToken: "access-" + username, RefreshToken: "refresh-" + username}
	f.SetTokens(pair.AccessToken, pair.RefreshToken)
	return pair, nil
}

func (f *fakeClient) Logout(context.Context) error {
	f.SetTokens("", "")
	return f.logoutErr
}

func (f *fakeClient) AddGratitude(_ context.Context, text string) (int, error) {
	if f.addCount >= 10 {
		return f.addCount, &client.APIError{Status: 400, Message: common.ErrLimitReached.Error()}
	}
	f.added = append(f.added, text)
	f.addCount++
	return f.addCount, nil
}

func (f *fakeClient) ForDate(_ context.Context, date string) ([]*models.Gratitude, error) {
	f.forDates = append(f.forDates, date)
	return []*models.Gratitude{{ID: "g1", Text: "rain"}}, nil
}

func (f *fakeClient) DeleteSentence(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeClient) AttachAudio(_ context.Context, id, audioData string) (*models.Sentence, error) {
	f.attached[id] = audioData
	return &models.Sentence{ID: id, HasAudio: true}, nil
}

func (f *fakeClient) Audio(_ context.Context, id string, limit int64) ([]byte, error) {
	if f.audioErr != nil {
		return nil, f.audioErr
	}
	data, ok := f.audio[id]
	if !ok {
		return nil, &client.APIError{Status: 404, Message: "not found"}
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, common.ErrAudioTooLarge
	}
	return data, nil
}

func (f *fakeClient) CreateSentence(_ context.Context, text string) (*models.Sentence, error) {
	s := &models.Sentence{ID: "new", Text: text}
	f.sentences = append(f.sentences, s)
	return s, nil
}

func (f *fakeClient) ComposeSentence(_ context.Context, target, emotions, characters string) (*models.Sentence, error) {
	return &models.Sentence{ID: "composed", Text: "I am " + characters + " and I am feeling " + emotions + " now that I have " + target + "."}, nil
}
