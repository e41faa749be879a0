package repomanager

import (
	"context"
	"database/sql"

	"ferreadmin/internal/dbx"
	"ferreadmin/internal/server/repositories/refreshtokens"
	"ferreadmin/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
