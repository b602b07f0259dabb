package database

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/velkyr/account-api/internal/database/migrations"
)

// RunMigrations applies all pending schema migrations embedded in the binary.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}
