package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/leeya018/gratitudes/internal/dbx"
	"github.com/leeya018/gratitudes/internal/server/migrations"
	"github.com/leeya018/gratitudes/internal/server/repositories/gratitudes"
	"github.com/leeya018/gratitudes/internal/server/repositories/refreshtokens"
	"github.com/leeya018/gratitudes/internal/server/repositories/sentences"
	"github.com/leeya018/gratitudes/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Gratitudes(db dbx.DBTX) gratitudes.Repository {
	return gratitudes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sentences(db dbx.DBTX) sentences.Repository {
	return sentences.NewPostgresRepository(db)
}

type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
}

// newMigrator is a seam for tests; it builds a goose provider over the
// embedded migrations.
var newMigrator = func(db *sql.DB) (migrator, error) {
	return goose.NewProvider(goose.DialectPostgres, db, migrations.Migrations)
}

// RunMigrations applies pending embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := newMigrator(db)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
