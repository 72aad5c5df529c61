// Package migrations embeds the schema for every supported dialect and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Dialect names the goose dialect and the migration directory.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

func (d Dialect) dir() (string, goose.Dialect, error) {
	switch d {
	case SQLite:
		return "sqlite", goose.DialectSQLite3, nil
	case Postgres:
		return "postgres", goose.DialectPostgres, nil
	default:
		return "", "", fmt.Errorf("unsupported migration dialect %q", string(d))
	}
}

type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
}

// newMigrator is a seam for testing goose.NewProvider.
var newMigrator = func(dialect goose.Dialect, db *sql.DB, fsys fs.FS) (migrator, error) {
	return goose.NewProvider(dialect, db, fsys)
}

// Up applies all pending migrations for the dialect and logs each applied
// version.
func Up(ctx context.Context, db *sql.DB, dialect Dialect, logger logrus.FieldLogger) error {
	dir, gooseDialect, err := dialect.dir()
	if err != nil {
		return err
	}
	sub, err := fs.Sub(files, dir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	m, err := newMigrator(gooseDialect, db, sub)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	results, err := m.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	for _, r := range results {
		if r.Source == nil {
			continue
		}
		logger.WithFields(logrus.Fields{
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration.String(),
		}).Info("migration applied")
	}
	if len(results) == 0 {
		logger.Debug("schema up to date")
	}
	return nil
}
