package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"user-sandbox/internal/dbx"
	"user-sandbox/internal/domain"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a user id with no stored row.
type NotFoundError struct {
	ID domain.ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown user with id %s", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	// FindByID returns a *NotFoundError when no row has the given id.
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	// Create stores a new user and returns its id.
	Create(ctx context.Context, user domain.User) (domain.ID, error)
	// Update replaces the stored fields of user and returns the number of
	// affected rows. A *NotFoundError is returned when nothing matched.
	Update(ctx context.Context, user domain.User) (int64, error)
}

// Manager vends repositories bound to a database handle, which may be the
// pool or an open transaction, and owns the schema for its dialect.
type Manager interface {
	RunMigrations(ctx context.Context, db *sql.DB, logger logrus.FieldLogger) error
	Users(db dbx.DBTX) UserRepository
}

// RestoreUser rebuilds a domain user from stored column values. A row that
// no longer validates is reported as an error rather than silently accepted.
func RestoreUser(rawID, name, position, mailAddress string) (domain.User, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return domain.User{}, fmt.Errorf("stored user id: %w", err)
	}
	pos, err := domain.ParsePosition(position)
	if err != nil {
		return domain.User{}, fmt.Errorf("stored user %s: %w", rawID, err)
	}
	mail, err := domain.NewMailAddress(mailAddress)
	if err != nil {
		return domain.User{}, fmt.Errorf("stored user %s: %w", rawID, err)
	}
	return domain.RestoreUser(id, name, pos, mail)
}
