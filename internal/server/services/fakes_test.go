package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leeya018/gratitudes/internal/common"
	"github.com/leeya018/gratitudes/internal/dbx"
	"github.com/leeya018/gratitudes/internal/server/models"
	gratitudesrepo "github.com/leeya018/gratitudes/internal/server/repositories/gratitudes"
	refreshtokensrepo "github.com/leeya018/gratitudes/internal/server/repositories/refreshtokens"
	"github.com/leeya018/gratitudes/internal/server/repositories/repomanager"
	sentencesrepo "github.com/leeya018/gratitudes/internal/server/repositories/sentences"
	usersrepo "github.com/leeya018/gratitudes/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fakeRepoManager hands out the same fake repositories for every DBTX.
type fakeRepoManager struct {
	repomanager.RepositoryManager
	u *fakeUsersRepo
	r *fakeRefreshRepo
	g *fakeGratitudesRepo
	s *fakeSentencesRepo
}

func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Gratitudes(dbx.DBTX) gratitudesrepo.Repository       { return m.g }
func (m *fakeRepoManager) Sentences(dbx.DBTX) sentencesrepo.Repository         { return m.s }

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	created   *models.User

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByLogin(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	deleted []string
	delErr  error

	created   []*models.RefreshToken
	createErr error

	purgeErr error
}

func (f *fakeRefreshRepo) Create(_ context.Context, t *models.RefreshToken) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, t)
	return nil
}

func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return f.delErr
}

func (f *fakeRefreshRepo) DeleteExpired(context.Context, string, time.Time) (int64, error) {
	return 0, f.purgeErr
}

// fakeGratitudesRepo keeps entries in memory and records call order.
type fakeGratitudesRepo struct {
	mu       sync.Mutex
	rows     []*models.Gratitude
	calls    []string
	err      error
	countErr error
	seq      int
}

func (f *fakeGratitudesRepo) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeGratitudesRepo) LockDay(context.Context, string, time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("lock")
	return f.err
}

func (f *fakeGratitudesRepo) CountForDay(_ context.Context, userID string, day time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("count")
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, g := range f.rows {
		if g.UserID == userID && g.Day.Equal(day) {
			n++
		}
	}
	return n, nil
}

func (f *fakeGratitudesRepo) Create(_ context.Context, g *models.Gratitude) (*models.Gratitude, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create")
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	g.ID = fmt.Sprintf("g%d", f.seq)
	g.CreatedAt = time.Unix(int64(f.seq), 0)
	f.rows = append(f.rows, g)
	return g, nil
}

func (f *fakeGratitudesRepo) ListForDay(_ context.Context, userID string, day time.Time) ([]*models.Gratitude, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Gratitude
	for _, g := range f.rows {
		if g.UserID == userID && g.Day.Equal(day) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGratitudesRepo) Dates(_ context.Context, userID string) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	seen := map[time.Time]bool{}
	var out []time.Time
	for _, g := range f.rows {
		if g.UserID == userID && !seen[g.Day] {
			seen[g.Day] = true
			out = append(out, g.Day)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out, nil
}

// fakeSentencesRepo is an in-memory, owner-scoped sentence table. Reads
// return copies like a database scan does, unless shared is set.
type fakeSentencesRepo struct {
	rows   map[string]*models.Sentence
	err    error
	seq    int
	shared bool
}

func (f *fakeSentencesRepo) out(s *models.Sentence) *models.Sentence {
	if f.shared {
		return s
	}
	cp := *s
	return &cp
}

func newFakeSentencesRepo() *fakeSentencesRepo {
	return &fakeSentencesRepo{rows: map[string]*models.Sentence{}}
}

func (f *fakeSentencesRepo) lookup(userID, id string) (*models.Sentence, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.rows[id]
	if !ok || s.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (f *fakeSentencesRepo) Get(_ context.Context, userID, id string) (*models.Sentence, error) {
	s, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	return f.out(s), nil
}

func (f *fakeSentencesRepo) Create(_ context.Context, s *models.Sentence) (*models.Sentence, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	s.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", f.seq)
	s.CreatedAt = time.Unix(int64(f.seq), 0)
	f.rows[s.ID] = s
	return f.out(s), nil
}

func (f *fakeSentencesRepo) ListByUser(_ context.Context, userID string) ([]*models.Sentence, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Sentence
	for _, s := range f.rows {
		if s.UserID == userID {
			out = append(out, f.out(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSentencesRepo) UpdateText(_ context.Context, userID, id, text string) (*models.Sentence, error) {
	s, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	s.Text = text
	return f.out(s), nil
}

func (f *fakeSentencesRepo) SetAudio(_ context.Context, userID, id, key, contentType string) (*models.Sentence, error) {
	s, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	s.AudioKey, s.AudioContentType = key, contentType
	return f.out(s), nil
}

func (f *fakeSentencesRepo) Delete(_ context.Context, userID, id string) (*models.Sentence, error) {
	s, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	delete(f.rows, id)
	return s, nil
}

// fakeBlobs implements blobs.Store in memory.
type fakeBlobs struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
	delErr  error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *fakeBlobs) Put(_ context.Context, key, contentType string, data []byte) error {
	if b.putErr != nil {
		return b.putErr
	}
	b.objects[key] = data
	b.types[key] = contentType
	return nil
}

func (b *fakeBlobs) Get(_ context.Context, key string) ([]byte, string, error) {
	data, ok := b.objects[key]
	if !ok {
		return nil, "", common.ErrorNotFound
	}
	return data, b.types[key], nil
}

func (b *fakeBlobs) Delete(_ context.Context, key string) error {
	if b.delErr != nil {
		return b.delErr
	}
	delete(b.objects, key)
	return nil
}

func (b *fakeBlobs) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "http://blobs/" + key + "?ttl=" + ttl.String(), nil
}
