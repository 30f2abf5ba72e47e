package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeMigrator struct {
	calls int
	err   error
}

func (f *fakeMigrator) Up(context.Context) ([]*goose.MigrationResult, error) {
	f.calls++
	return nil, f.err
}

func withMigrator(t *testing.T, m migrator, err error) {
	t.Helper()
	orig := newMigrator
	newMigrator = func(*sql.DB) (migrator, error) { return m, err }
	t.Cleanup(func() { newMigrator = orig })
}

func TestRepositories_BindToHandle(t *testing.T) {
	db := newDB(t)
	m := NewPostgresRepositoryManager()

	assert.NotNil(t, m.Users(db))
	assert.NotNil(t, m.RefreshTokens(db))
	assert.NotNil(t, m.Gratitudes(db))
	assert.NotNil(t, m.Sentences(db))
}

func TestRunMigrations(t *testing.T) {
	fm := &fakeMigrator{}
	withMigrator(t, fm, nil)

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), newDB(t)))
	assert.Equal(t, 1, fm.calls)
}

func TestRunMigrations_Errors(t *testing.T) {
	withMigrator(t, nil, errBoom)
	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), newDB(t))
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, "load migrations")

	withMigrator(t, &fakeMigrator{err: errBoom}, nil)
	err = NewPostgresRepositoryManager().RunMigrations(context.Background(), newDB(t))
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, "apply migrations")
}

func TestEmbeddedMigrations_Load(t *testing.T) {
	m, err := newMigrator(newDB(t))
	require.NoError(t, err)

	p, ok := m.(*goose.Provider)
	require.True(t, ok)

	var versions []int64
	for _, s := range p.ListSources() {
		versions = append(versions, s.Version)
	}
	assert.Equal(t, []int64{1, 2, 3}, versions)
}
