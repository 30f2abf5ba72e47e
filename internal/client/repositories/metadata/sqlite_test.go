package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/leeya018/gratitudes/internal/client/migrations"
	"github.com/leeya018/gratitudes/internal/dbx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyUsername, []byte("alice")))

	v, err := r.Get(ctx, KeyUsername)
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), v)
}

func TestGet_MissingKey(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSet_Overwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyAccessToken, []byte("old")))
	require.NoError(t, r.Set(ctx, KeyAccessToken, []byte("new")))

	v, err := r.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestSetMany_InsideTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).SetMany(ctx, map[string][]byte{
			KeyUsername:     []byte("alice"),
			KeyAccessToken:  []byte("a"),
			KeyRefreshToken: []byte("r"),
		})
	})
	require.NoError(t, err)

	m, err := NewSQLiteRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		KeyUsername:     []byte("alice"),
		KeyAccessToken:  []byte("a"),
		KeyRefreshToken: []byte("r"),
	}, m)
}

func TestDelete_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "x", []byte{0x01}))
	require.NoError(t, r.Delete(ctx, "x"))

	v, err := r.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Delete(ctx, "x"))
}

func TestClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Clear(ctx))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	assert.ErrorContains(t, err, "failed to get metadata[k]")

	assert.ErrorContains(t, r.Set(ctx, "k", nil), "failed to set metadata[k]")
	assert.ErrorContains(t, r.SetMany(ctx, map[string][]byte{"k": {1}}), "failed to set metadata[k]")
	assert.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete metadata[k]")
	assert.ErrorContains(t, r.Clear(ctx), "failed to clear metadata")

	_, err = r.List(ctx)
	assert.ErrorContains(t, err, "failed to list metadata")
}
