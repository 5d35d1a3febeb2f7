package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 4003, cfg.Server.Port)
	require.Equal(t, "0.0.0.0:4003", cfg.Server.Addr())
	require.Equal(t, "pharmarx", cfg.Database.Name)
	require.True(t, cfg.Database.Migrate)
	require.Equal(t, "auth-service", cfg.Auth.Issuer)
	require.Equal(t, "payment-service", cfg.Auth.Audience)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_DB_NAME", "pharmarx_test")
	t.Setenv("APP_JWT_ACCESS_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "pharmarx_test", cfg.Database.Name)
	require.Equal(t, "s3cret", cfg.Auth.AccessSecret)
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5433, User: "app", Password: "pw", Name: "pharmarx", SSLMode: "require",
	}
	require.Equal(t, "postgres://app:pw@db:5433/pharmarx?sslmode=require", cfg.DSN())
}
