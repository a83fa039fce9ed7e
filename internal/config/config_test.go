package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "localhost:6379")
	t.Setenv("TEST_API_KEY", "secret-key")

	path := writeConfig(t, `
app:
  name: "aircare"
  environment: "test"

database:
  path: "data/test.db"

redis:
  address: "${TEST_REDIS_ADDR}"
  db: 1

scope:
  prefixes:
    - "/request"
    - "/partner"

api:
  enabled: true
  auth:
    api_keys:
      - key: "${TEST_API_KEY}"
        name: "storefront"
        permissions: ["write:draft"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "aircare", cfg.App.Name)
	assert.Equal(t, "data/test.db", cfg.Database.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 1, cfg.Redis.DB)
	require.Len(t, cfg.API.Auth.APIKeys, 1)
	assert.Equal(t, "secret-key", cfg.API.Auth.APIKeys[0].Key)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "data/test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.HTTP.Port)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, "x-session-id", cfg.API.SessionHeader)
	assert.Equal(t, 86400, cfg.Draft.TTLSeconds)
	assert.Equal(t, []string{"/request", "/partner"}, cfg.Scope.Prefixes)
	assert.Equal(t, 10, cfg.Notify.TimeoutSeconds)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Path: "data/test.db"},
			Scope:    ScopeConfig{Prefixes: []string{"/request"}},
		}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "Valid",
			modify: func(c *Config) {},
		},
		{
			name:    "MissingDatabasePath",
			modify:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database path is required",
		},
		{
			name: "NotifyEnabledWithoutDefaultURL",
			modify: func(c *Config) {
				c.Notify.Enabled = true
				c.Notify.PartnerURL = "http://relay/partner"
			},
			wantErr: "notify.default_url is required",
		},
		{
			name: "NotifyEnabledWithoutPartnerURL",
			modify: func(c *Config) {
				c.Notify.Enabled = true
				c.Notify.DefaultURL = "http://relay/default"
			},
			wantErr: "notify.partner_url is required",
		},
		{
			name:    "ScopePrefixWithoutSlash",
			modify:  func(c *Config) { c.Scope.Prefixes = []string{"request"} },
			wantErr: "must start with /",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateScopePrefixes(t *testing.T) {
	assert.NoError(t, ValidateScopePrefixes(nil))
	assert.NoError(t, ValidateScopePrefixes([]string{"/request", "/partner"}))
	assert.Error(t, ValidateScopePrefixes([]string{""}))
	assert.Error(t, ValidateScopePrefixes([]string{"request"}))
	assert.Error(t, ValidateScopePrefixes([]string{"/request", "/request"}))
}
