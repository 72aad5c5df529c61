package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"user-sandbox/internal/dbx"
	"user-sandbox/internal/domain"
	"user-sandbox/internal/repository"
)

type UserRepository struct {
	db dbx.DBTX
}

func NewUserRepository(db dbx.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	query :=
		`SELECT id, name, position, mail_address FROM users
		 WHERE id = $1`

	var rawID, name, position, mail string
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&rawID, &name, &position, &mail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &repository.NotFoundError{ID: id}
		}
		return domain.User{}, fmt.Errorf("db error: %w", err)
	}
	return repository.RestoreUser(rawID, name, position, mail)
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.ID, error) {
	query :=
		`INSERT INTO users (id, name, position, mail_address)
		 VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID().String(), user.Name(), user.Position().String(), user.MailAddress().String())
	if err != nil {
		return domain.ID{}, fmt.Errorf("db error: %w", err)
	}
	return user.ID(), nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (int64, error) {
	query :=
		`UPDATE users SET name = $1, position = $2, mail_address = $3, updated_at = now()
		 WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query,
		user.Name(), user.Position().String(), user.MailAddress().String(), user.ID().String())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return 0, &repository.NotFoundError{ID: user.ID()}
	}
	return n, nil
}
