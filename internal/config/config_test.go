package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/twinforge.db", cfg.Database.Path)
	assert.Equal(t, 24*60, cfg.Auth.TokenTTLMinutes)
	// no silent default secret
	assert.Empty(t, cfg.Auth.JWTSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TWINFORGE_SERVER_ADDR", "127.0.0.1:9090")
	t.Setenv("TWINFORGE_AUTH_JWTSECRET", "from-env")
	t.Setenv("TWINFORGE_AUTH_TOKENTTLMINUTES", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
}
