package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKey = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN_KEY", validKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, []byte(validKey), cfg.Auth.TokenKey)
}

func TestLoadRejectsBadKeyLength(t *testing.T) {
	t.Setenv("TOKEN_KEY", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadTrustedOrigins(t *testing.T) {
	t.Setenv("TOKEN_KEY", validKey)
	t.Setenv("TRUSTED_ORIGINS", " https://app.example.com , https://admin.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"https://app.example.com", "https://admin.example.com"},
		cfg.Server.TrustedOrigins,
	)
}

func TestLoadDurationOverride(t *testing.T) {
	t.Setenv("TOKEN_KEY", validKey)
	t.Setenv("TOKEN_DURATION", "3600")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
}

func TestConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: "5432", User: "svc", Password: "pw",
		DBName: "accounts", SSLMode: "disable",
	}

	assert.Equal(t,
		"host=db port=5432 user=svc password=pw dbname=accounts sslmode=disable",
		c.ConnectionString(),
	)
}
