// Package repomanager vends repositories bound to a connection or
// transaction and runs schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/leeya018/gratitudes/internal/dbx"
	"github.com/leeya018/gratitudes/internal/server/repositories/gratitudes"
	"github.com/leeya018/gratitudes/internal/server/repositories/refreshtokens"
	"github.com/leeya018/gratitudes/internal/server/repositories/sentences"
	"github.com/leeya018/gratitudes/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Gratitudes(db dbx.DBTX) gratitudes.Repository
	Sentences(db dbx.DBTX) sentences.Repository
}
