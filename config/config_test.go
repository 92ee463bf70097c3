package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("STRICT_VALIDATION", "")
	t.Setenv("PUBLIC_PAGE_SIZE", "")
	t.Setenv("ADMIN_PAGE_SIZE", "")
	t.Setenv("UNIQUE_EMAIL_INDEX", "")
	t.Setenv("TRACING_ENABLED", "")
	t.Setenv("DB_CONNECT_TIMEOUT", "")
	t.Setenv("AVATAR_BASE_URL", "")

	cfg := Load()

	require.Equal(t, DriverMongo, cfg.Database.Driver)
	require.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	require.False(t, cfg.Listing.StrictValidation)
	require.True(t, cfg.Listing.UniqueEmailIndex)
	require.Equal(t, 100, cfg.Listing.AdminPageSize)
	require.Equal(t, 12, cfg.Listing.PublicPageSize)
	require.Equal(t, "https://ui-avatars.com/api/", cfg.Listing.AvatarBaseURL)
	require.False(t, cfg.Tracing.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "directory")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("STRICT_VALIDATION", "yes")
	t.Setenv("UNIQUE_EMAIL_INDEX", "false")
	t.Setenv("PUBLIC_PAGE_SIZE", "24")
	t.Setenv("DB_CONNECT_TIMEOUT", "3s")

	cfg := Load()

	require.Equal(t, DriverPostgres, cfg.Database.Driver)
	require.True(t, cfg.Listing.StrictValidation)
	require.False(t, cfg.Listing.UniqueEmailIndex)
	require.Equal(t, 24, cfg.Listing.PublicPageSize)
	require.Equal(t, 3*time.Second, cfg.Database.ConnectTimeout)
	require.Contains(t, cfg.Database.BuildDSN(), "postgresql://app:@db:5432/directory?sslmode=disable")
	require.NoError(t, cfg.Validate())
}

func TestValidateAggregatesProblems(t *testing.T) {
	cfg := Load()
	cfg.Database.Driver = "sqlite"
	cfg.Listing.PublicPageSize = 0
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DB_DRIVER must be one of")
	require.Contains(t, err.Error(), "PUBLIC_PAGE_SIZE must be positive")
	require.Contains(t, err.Error(), "LOG_LEVEL must be one of")
}

func TestValidatePostgresRequiresHost(t *testing.T) {
	cfg := Load()
	cfg.Database.Driver = DriverPostgres
	cfg.Database.Host = ""

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DB_HOST is required")
}

func TestGetEnvDurationSecondsWithMax(t *testing.T) {
	t.Setenv("X_TIMEOUT", "90s")
	require.Equal(t, 10, getEnvDurationSecondsWithMax("X_TIMEOUT", 10, 60))

	t.Setenv("X_TIMEOUT", "bogus")
	require.Equal(t, 10, getEnvDurationSecondsWithMax("X_TIMEOUT", 10, 60))

	t.Setenv("X_TIMEOUT", "1m")
	require.Equal(t, 60, getEnvDurationSecondsWithMax("X_TIMEOUT", 10, 60))
}
