// Package migrations embeds the schema for every supported storage driver
// and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Up applies all pending migrations for dialect ("sqlite3" or "postgres")
// from the directory of the same driver family.
func Up(ctx context.Context, db *sql.DB, dialect, dir string) error {
	const op = "storage.migrations.Up"

	sub, err := fs.Sub(files, dir)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	goose.SetBaseFS(sub)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
