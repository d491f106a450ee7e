package storage

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// migrate brings the schema up to date. When remigrateCount is positive that
// many migrations are rolled back first, which is useful while iterating on a
// migration locally.
func migrate(db *sql.DB, remigrateCount int) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return fmt.Errorf("failed setting up database dialect: %w", err)
	}

	for range remigrateCount {
		if err := goose.Down(db, "migrations"); err != nil {
			return fmt.Errorf("down migrations failed: %w", err)
		}
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("up migrations failed: %w", err)
	}

	return nil
}
