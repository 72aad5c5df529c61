// Package postgres provides PostgreSQL-backed repositories using the pgx
// driver through database/sql.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"user-sandbox/internal/dbx"
	"user-sandbox/internal/migrations"
	"user-sandbox/internal/repository"
)

// Open parses dsn, opens a pooled connection and pings it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	db := stdlib.OpenDB(*cfg)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Manager vends PostgreSQL-backed repositories.
type Manager struct{}

func NewManager() repository.Manager {
	return Manager{}
}

func (Manager) RunMigrations(ctx context.Context, db *sql.DB, logger logrus.FieldLogger) error {
	return migrations.Up(ctx, db, migrations.Postgres, logger)
}

func (Manager) Users(db dbx.DBTX) repository.UserRepository {
	return NewUserRepository(db)
}
