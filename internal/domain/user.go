package domain

import (
	"errors"
	"strings"
)

// ErrEmptyName is returned when a user name is blank.
var ErrEmptyName = errors.New("name is required")

// User is a member of the organisation. Values are immutable; use
// ChangeProfile to derive an updated copy.
type User struct {
	id          ID
	name        string
	position    Position
	mailAddress MailAddress
}

// NewUser builds a user with a freshly generated ID.
func NewUser(name string, position Position, mailAddress MailAddress) (User, error) {
	return newUser(NewID(), name, position, mailAddress)
}

// RestoreUser rebuilds a persisted user. It applies the same validation as NewUser.
func RestoreUser(id ID, name string, position Position, mailAddress MailAddress) (User, error) {
	return newUser(id, name, position, mailAddress)
}

func newUser(id ID, name string, position Position, mailAddress MailAddress) (User, error) {
	if strings.TrimSpace(name) == "" {
		return User{}, ErrEmptyName
	}
	if _, err := ParsePosition(string(position)); err != nil {
		return User{}, err
	}
	if mailAddress.value == "" {
		return User{}, ErrInvalidMailAddress
	}
	return User{
		id:          id,
		name:        name,
		position:    position,
		mailAddress: mailAddress,
	}, nil
}

// ChangeProfile returns a copy of u with the given fields replaced. The ID is kept.
func (u User) ChangeProfile(name string, position Position, mailAddress MailAddress) (User, error) {
	return newUser(u.id, name, position, mailAddress)
}

func (u User) ID() ID                   { return u.id }
func (u User) Name() string             { return u.name }
func (u User) Position() Position       { return u.position }
func (u User) MailAddress() MailAddress { return u.mailAddress }
