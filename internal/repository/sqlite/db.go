package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"user-sandbox/internal/dbx"
	"user-sandbox/internal/migrations"
	"user-sandbox/internal/repository"
)

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// sqlite serialises writers; one connection keeps transactions from
	// tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

// Manager vends sqlite-backed repositories.
type Manager struct{}

func NewManager() repository.Manager {
	return Manager{}
}

func (Manager) RunMigrations(ctx context.Context, db *sql.DB, logger logrus.FieldLogger) error {
	return migrations.Up(ctx, db, migrations.SQLite, logger)
}

func (Manager) Users(db dbx.DBTX) repository.UserRepository {
	return NewUserRepository(db)
}
