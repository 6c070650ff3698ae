package logger_test

import (
	"testing"

	"github.com/calebhoward/bastion/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestSanitizedEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"normal address", "user@example.com", "u***@*******.com"},
		{"single char user", "a@example.com", "a@*******.com"},
		{"not an email", "garbage", "[invalid-email]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.SanitizedEmail(tt.email))
		})
	}
}

func TestSanitizeQueryString(t *testing.T) {
	assert.True(t, logger.SanitizeQueryString("password=hunter2"))
	assert.True(t, logger.SanitizeQueryString("next=/home&TOKEN=abc"))
	assert.False(t, logger.SanitizeQueryString("page=2&limit=10"))
	assert.False(t, logger.SanitizeQueryString(""))
}
