package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMailAddress_Valid(t *testing.T) {
	for _, s := range []string{"alice@example.com", "bob.smith+tag@mail.example.org"} {
		m, err := NewMailAddress(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, m.String())
	}
}

func TestNewMailAddress_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"...@example.com",
		"alice",
		"alice@",
		"@example.com",
		"alice@@example.com",
		"alice example@example.com",
	} {
		_, err := NewMailAddress(s)
		assert.ErrorIs(t, err, ErrInvalidMailAddress, s)
	}
}
