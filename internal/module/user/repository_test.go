package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDuplicate(t *testing.T) {
	t.Run("existing email maps to email conflict", func(t *testing.T) {
		err := classifyDuplicate(func() (bool, error) { return true, nil })
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("free email maps to username conflict", func(t *testing.T) {
		err := classifyDuplicate(func() (bool, error) { return false, nil })
		assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
	})

	t.Run("lookup failure keeps the email conflict", func(t *testing.T) {
		err := classifyDuplicate(func() (bool, error) { return false, errors.New("db down") })
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}
