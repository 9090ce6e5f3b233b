package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestMergeEnv_OverridesDefaults(t *testing.T) {
	cfg := Default()
	err := cfg.mergeEnv(envFrom(map[string]string{
		"API_BASE_URL":           "https://api.example.invalid/api",
		"SERVER_PORT":            "9000",
		"API_TIMEOUT":            "15s",
		"SECURE_COOKIES":         "true",
		"LOGOUT_ON_UNAUTHORIZED": "false",
		"STORE_DRIVER":           "postgres",
		"DATABASE_URL":           "postgres://u:p@localhost/db",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.invalid/api", cfg.APIBaseURL)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.True(t, cfg.SecureCookies)
	assert.False(t, cfg.LogoutOnUnauthorized)
	assert.NoError(t, cfg.Validate())
}

func TestMergeEnv_RejectsBadValues(t *testing.T) {
	assert.Error(t, Default().mergeEnv(envFrom(map[string]string{"API_TIMEOUT": "soon"})))
	assert.Error(t, Default().mergeEnv(envFrom(map[string]string{"SECURE_COOKIES": "maybe"})))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "redis" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *Config) { c.StoreDriver = "postgres" }, wantErr: true},
		{name: "short csrf key", mutate: func(c *Config) { c.CSRFKey = "short" }, wantErr: true},
		{name: "short vault key", mutate: func(c *Config) { c.VaultKey = "short" }, wantErr: true},
		{name: "vault key", mutate: func(c *Config) { c.VaultKey = "0123456789abcdef" }},
		{name: "bad tz", mutate: func(c *Config) { c.DisplayTZ = "Mars/Olympus" }, wantErr: true},
		{name: "missing api url", mutate: func(c *Config) { c.APIBaseURL = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backoffice.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url: http://upstream:3000/api\nserver_port: \"7070\"\nworkspace_idle_ttl: 1h\n"), 0o600))

	cfg := Default()
	require.NoError(t, cfg.mergeFile(path))
	assert.Equal(t, "http://upstream:3000/api", cfg.APIBaseURL)
	assert.Equal(t, "7070", cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.WorkspaceIdleTTL)
}

func TestRequireServer(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.RequireServer())
	cfg.CookieSecret = "0123456789abcdef"
	assert.NoError(t, cfg.RequireServer())
}

func TestDefault_DisplayZoneResolves(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	loc := cfg.Location()
	assert.Equal(t, "Asia/Seoul", loc.String())
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 9*60*60, offset)
}
