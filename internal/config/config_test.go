//go:build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24, cfg.Session.LifetimeHours)
	assert.Equal(t, int64(100), cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, 60, cfg.Cache.SearchTTLSeconds)
	assert.False(t, cfg.OIDC.Enabled())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORTAL_SERVER_PORT", "9090")
	t.Setenv("PORTAL_LOG_LEVEL", "debug")
	t.Setenv("MAX_FILE_SIZE_MB", "5")
	t.Setenv("ADMIN_EMAIL", "root@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, int64(5), cfg.Upload.MaxFileSizeMB)
	assert.Equal(t, "root@example.com", cfg.Admin.Email)
}
