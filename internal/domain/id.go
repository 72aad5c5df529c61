package domain

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ID identifies a user. It is a ULID generated when the user is created.
type ID ulid.ULID

// InvalidIDError reports a string that cannot be parsed as an ID.
type InvalidIDError struct {
	Message string
}

func (e *InvalidIDError) Error() string {
	return e.Message
}

// NewID returns a fresh ID. IDs created within the same millisecond are
// monotonically increasing.
func NewID() ID {
	return ID(ulid.Make())
}

// ParseID parses the canonical 26 character form of an ID.
func ParseID(s string) (ID, error) {
	v, err := ulid.ParseStrict(s)
	if err != nil {
		return ID{}, &InvalidIDError{Message: fmt.Sprintf("invalid user id %q: %v", s, err)}
	}
	return ID(v), nil
}

func (id ID) String() string {
	return ulid.ULID(id).String()
}

// IsZero reports whether the ID was never assigned.
func (id ID) IsZero() bool {
	return ulid.ULID(id) == ulid.ULID{}
}
