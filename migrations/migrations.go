// Package migrations embeds the goose SQL migrations for the bot's schema:
// the subscription registry, per-channel feed lists, and the seen-set.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// FS holds the embedded migration files, applied in version order.
//
//go:embed *.sql
var FS embed.FS

// Run brings the database up to the latest schema version. Called on every
// startup; already-applied migrations are skipped.
func Run(db *sql.DB) error {
	goose.SetBaseFS(FS)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
