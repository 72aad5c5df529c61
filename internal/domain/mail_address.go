package domain

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidMailAddress is returned for any string that is not a valid email address.
var ErrInvalidMailAddress = errors.New("invalid mail address")

var mailValidator = validator.New()

// MailAddress holds an email address that passed validation.
type MailAddress struct {
	value string
}

// NewMailAddress validates s and wraps it. Every rejection yields ErrInvalidMailAddress.
func NewMailAddress(s string) (MailAddress, error) {
	if s == "" {
		return MailAddress{}, ErrInvalidMailAddress
	}
	if err := mailValidator.Var(s, "email"); err != nil {
		return MailAddress{}, ErrInvalidMailAddress
	}
	return MailAddress{value: s}, nil
}

func (m MailAddress) String() string {
	return m.value
}
