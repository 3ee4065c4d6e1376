package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Stock int    `validate:"gte=0"`
}

func TestValidateOK(t *testing.T) {
	err := Validate(sample{Name: "Maize", Email: "farm@example.com", Stock: 3})
	assert.NoError(t, err)
}

func TestValidateCollectsFieldErrors(t *testing.T) {
	err := Validate(sample{Stock: -1})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	fields := vErr.Fields()
	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "is required", fields["Email"])
	assert.Equal(t, "must be greater than or equal to 0", fields["Stock"])
}

func TestValidateEmailFormat(t *testing.T) {
	err := Validate(sample{Name: "x", Email: "not-an-email", Stock: 0})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "must be a valid email address", vErr.Fields()["Email"])
}
