package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPasswordWithCost("password123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hashed)
	assert.True(t, CheckPassword(hashed, "password123"))
	assert.False(t, CheckPassword(hashed, "password124"))
}

func TestValidPassword(t *testing.T) {
	assert.True(t, ValidPassword("12345678"))
	assert.False(t, ValidPassword("1234567"))
}
