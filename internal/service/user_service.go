package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"

	"user-sandbox/internal/dbx"
	"user-sandbox/internal/domain"
	"user-sandbox/internal/repository"
)

// CreateUserRequest carries the raw fields of a new user.
type CreateUserRequest struct {
	Name        string
	Position    string
	MailAddress string
}

// UpdateUserRequest carries the raw replacement fields of an existing user.
type UpdateUserRequest struct {
	Name        string
	Position    string
	MailAddress string
}

// UserResponse is the flattened view of a user handed to callers.
type UserResponse struct {
	ID          string
	Name        string
	Position    string
	MailAddress string
}

// UserService describes user lifecycle operations.
type UserService interface {
	FindByID(ctx context.Context, id string) (UserResponse, FindByIDError)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, CreateError)
	Update(ctx context.Context, id string, req UpdateUserRequest) (int64, UpdateError)
}

type userService struct {
	db     *sql.DB
	repos  repository.Manager
	logger logrus.FieldLogger
}

func NewUserService(db *sql.DB, repos repository.Manager, logger logrus.FieldLogger) UserService {
	return &userService{
		db:     db,
		repos:  repos,
		logger: logger,
	}
}

func (s *userService) FindByID(ctx context.Context, id string) (UserResponse, FindByIDError) {
	parsedID, err := domain.ParseID(id)
	if err != nil {
		return UserResponse{}, &InvalidIDError{Message: err.Error()}
	}

	user, err := s.repos.Users(s.db).FindByID(ctx, parsedID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return UserResponse{}, &NotFoundError{Message: err.Error()}
		}
		return UserResponse{}, s.fault("find user", err)
	}

	return toResponse(user), nil
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (UserResponse, CreateError) {
	onFault := func(err error) CreateError { return s.fault("create user", err) }

	return dbx.InTx(ctx, s.db, onFault, func(ctx context.Context, tx dbx.DBTX) (UserResponse, error) {
		position, err := domain.ParsePosition(req.Position)
		if err != nil {
			return UserResponse{}, &EnumConvertError{Message: err.Error()}
		}

		mailAddress, err := domain.NewMailAddress(req.MailAddress)
		if err != nil {
			return UserResponse{}, &InvalidMailAddressError{}
		}

		user, err := domain.NewUser(req.Name, position, mailAddress)
		if err != nil {
			return UserResponse{}, validationError(err)
		}

		if _, err := s.repos.Users(tx).Create(ctx, user); err != nil {
			return UserResponse{}, err
		}

		return toResponse(user), nil
	})
}

func (s *userService) Update(ctx context.Context, id string, req UpdateUserRequest) (int64, UpdateError) {
	onFault := func(err error) UpdateError { return s.fault("update user", err) }

	return dbx.InTx(ctx, s.db, onFault, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		parsedID, err := domain.ParseID(id)
		if err != nil {
			return 0, &InvalidIDError{Message: err.Error()}
		}

		users := s.repos.Users(tx)
		existing, err := users.FindByID(ctx, parsedID)
		if err != nil {
			return 0, notFoundOr(err)
		}

		position, err := domain.ParsePosition(req.Position)
		if err != nil {
			return 0, &EnumConvertError{Message: err.Error()}
		}

		mailAddress, err := domain.NewMailAddress(req.MailAddress)
		if err != nil {
			return 0, &InvalidMailAddressError{}
		}

		updated, err := existing.ChangeProfile(req.Name, position, mailAddress)
		if err != nil {
			return 0, validationError(err)
		}

		// The row can disappear between the lookup and the write; the
		// repository reports that as not found too.
		n, err := users.Update(ctx, updated)
		if err != nil {
			return 0, notFoundOr(err)
		}
		return n, nil
	})
}

func (s *userService) fault(op string, err error) *FaultError {
	s.logger.WithError(err).Warnf("%s: unexpected fault", op)
	return &FaultError{Err: err}
}

// notFoundOr maps a repository not-found into the use case variant and
// leaves anything else to be treated as a fault.
func notFoundOr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Message: err.Error()}
	}
	return err
}

// validationError maps entity construction failures. Position and mail are
// validated beforehand, so only the name check can fail here in practice.
func validationError(err error) error {
	var convErr *domain.ConversionError
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return &InvalidNameError{Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidMailAddress):
		return &InvalidMailAddressError{}
	case errors.As(err, &convErr):
		return &EnumConvertError{Message: convErr.Message}
	default:
		return err
	}
}

func toResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID().String(),
		Name:        user.Name(),
		Position:    user.Position().String(),
		MailAddress: user.MailAddress().String(),
	}
}
