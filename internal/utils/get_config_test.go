package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetConfigEnvOverridesYAML(t *testing.T) {
	config = Config{DBHost: "yaml-host", AppPort: "9000"}
	t.Cleanup(func() { config = Config{} })

	require.Equal(t, "yaml-host", GetConfig("DB_HOST"))

	t.Setenv("DB_HOST", "env-host")
	require.Equal(t, "env-host", GetConfig("DB_HOST"))
	require.Equal(t, "9000", GetConfig("APP_PORT"))
}

func TestGetConfigDefaults(t *testing.T) {
	config = Config{}

	require.Equal(t, "8080", GetConfig("APP_PORT"))
	require.Equal(t, "300", GetConfig("CACHE_TTL_SECONDS"))
	require.Equal(t, 1440, GetConfigInt("JWT_TTL_MINUTES", 0))
	require.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}

func TestGetConfigInt(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "not-a-number")
	require.Equal(t, 42, GetConfigInt("CACHE_TTL_SECONDS", 42))

	t.Setenv("CACHE_TTL_SECONDS", "15")
	require.Equal(t, 15, GetConfigInt("CACHE_TTL_SECONDS", 42))
}
