package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/freelance")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRES_MIN", "not-a-number")

	cfg := Load()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 1440, cfg.JWTExpiresMin)
	assert.False(t, cfg.AllowAdminSignup)
	assert.False(t, cfg.StrictProposalTransitions)
	assert.False(t, cfg.GoogleEnabled())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/freelance")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_PORT", "5000")
	t.Setenv("STRICT_PROPOSAL_TRANSITIONS", "true")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "5000", cfg.AppPort)
	assert.True(t, cfg.StrictProposalTransitions)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadPanicsWithoutSecret(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/freelance")
	t.Setenv("JWT_SECRET", "")

	require.PanicsWithValue(t, "missing env: JWT_SECRET", func() { Load() })
}
