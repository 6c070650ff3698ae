package auth_test

import (
	"testing"

	"github.com/calebhoward/bastion/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse-9")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-9", hash)

	assert.NoError(t, auth.ComparePassword(hash, "correct-horse-9"))
	assert.Error(t, auth.ComparePassword(hash, "wrong-password"))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := auth.HashPassword("")
	assert.Error(t, err)
}

func TestHashPasswordEnforcesLength(t *testing.T) {
	_, err := auth.HashPassword("short")
	assert.Error(t, err)
}
