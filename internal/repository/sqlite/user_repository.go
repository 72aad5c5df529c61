package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, position, mail_address
FROM users
WHERE id = ?`,
		id.String(),
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &repository.NotFoundError{ID: id}
		}
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.ID, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, name, position, mail_address, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID().String(),
		user.Name(),
		user.Position().String(),
		user.MailAddress().String(),
		now,
		now,
	)
	if err != nil {
		return domain.ID{}, fmt.Errorf("insert user: %w", err)
	}
	return user.ID(), nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET name = ?, position = ?, mail_address = ?, updated_at = ?
WHERE id = ?`,
		user.Name(),
		user.Position().String(),
		user.MailAddress().String(),
		time.Now().UTC(),
		user.ID().String(),
	)
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("user rows affected: %w", err)
	}
	if n == 0 {
		return 0, &repository.NotFoundError{ID: user.ID()}
	}
	return n, nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (domain.User, error) {
	var rawID, name, position, mail string
	if err := row.Scan(&rawID, &name, &position, &mail); err != nil {
		return domain.User{}, err
	}
	return repository.RestoreUser(rawID, name, position, mail)
}
