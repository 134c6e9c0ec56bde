package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NJABOOT_SQLITE_PATH", "/tmp/state.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, StorageSQLite, cfg.Client.StorageDriver)
	assert.Equal(t, "/tmp/state.db", cfg.Client.SQLitePath)
	assert.Equal(t, "http://localhost:8080", cfg.Client.APIURL)
	assert.False(t, cfg.OIDC.Enabled())
	assert.True(t, cfg.App.IsDev())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NJABOOT_STORAGE", "redis")
	t.Setenv("NJABOOT_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("NJABOOT_HTTP_TIMEOUT", "3s")
	t.Setenv("NJABOOT_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.Client.StorageDriver)
	assert.Equal(t, 3*time.Second, cfg.Client.HTTPTimeout)
	assert.False(t, cfg.App.IsDev())
	assert.NotEmpty(t, cfg.Client.SQLitePath)
}

func TestRead_DefersValidation(t *testing.T) {
	t.Setenv("NJABOOT_STORAGE", "redis")
	t.Setenv("NJABOOT_REDIS_URL", "")

	_, err := Load()
	assert.Error(t, err)

	cfg, err := Read()
	require.NoError(t, err)
	assert.Equal(t, StorageRedis, cfg.Client.StorageDriver)

	cfg.Client.StorageDriver = StorageMemory
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{Client: ClientConfig{StorageDriver: StorageMemory}}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"memory ok", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.Client.StorageDriver = "floppy" }, true},
		{"redis without url", func(c *Config) { c.Client.StorageDriver = StorageRedis }, true},
		{"manager email only", func(c *Config) { c.Server.ManagerEmail = "boss@njaboot.sn" }, true},
		{"manager pair", func(c *Config) {
			c.Server.ManagerEmail = "boss@njaboot.sn"
			c.Server.ManagerPassword = "secret123"
		}, false},
		{"oidc missing client", func(c *Config) { c.OIDC.Issuer = "https://id.example.com" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
