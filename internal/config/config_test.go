package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"admin"}, cfg.AutoApproveRoles)
	assert.Equal(t, "0 5 0 * * *", cfg.DailyCloseCron)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_RequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/ventas")
	t.Setenv("BUSINESS_TIMEZONE", "Asia/Yangon")
	t.Setenv("AUTO_APPROVE_ROLES", "admin, manager ,")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("WORKER_COUNT", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Yangon", cfg.Location.String())
	assert.Equal(t, []string{"admin", "manager"}, cfg.AutoApproveRoles)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 1, cfg.WorkerCount)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("BUSINESS_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}
