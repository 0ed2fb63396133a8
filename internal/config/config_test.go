package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
[storage]
driver = "memory"

[auth]
jwt_secret = "s3cret"

[database]
host = "db.internal"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "Europe/Sofia", cfg.Business.Timezone)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal port=5432")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[auth]
jwt_secret = "from-file"
`)
	t.Setenv("GTP_AUTH_JWT_SECRET", "from-env")
	t.Setenv("GTP_SERVER_HTTP_PORT", "9090")
	t.Setenv("GTP_STORAGE_DRIVER", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("GTP_AUTH_JWT_SECRET", "x")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "sqlite" }},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }},
		{name: "bad timezone", mutate: func(c *Config) { c.Business.Timezone = "Mars/Olympus" }},
		{name: "firestore without project", mutate: func(c *Config) { c.Storage.Driver = DriverFirestore }},
		{name: "mongo without uri", mutate: func(c *Config) { c.Storage.Driver = DriverMongo }},
		{name: "bad port", mutate: func(c *Config) { c.Server.HTTPPort = 0 }},
		{name: "bad trusted proxy", mutate: func(c *Config) { c.RateLimit.TrustedProxies = []string{"proxy.local"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.JWTSecret = "x"
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestRateLimitConfig_TrustedProxyPrefixes(t *testing.T) {
	cfg := RateLimitConfig{TrustedProxies: []string{"10.0.0.0/8", " 192.168.1.10 ", "::ffff:172.16.0.1"}}

	prefixes, err := cfg.TrustedProxyPrefixes()
	require.NoError(t, err)
	require.Len(t, prefixes, 3)

	assert.True(t, prefixes[0].Contains(netip.MustParseAddr("10.20.30.40")))
	assert.True(t, prefixes[1].Contains(netip.MustParseAddr("192.168.1.10")))
	assert.False(t, prefixes[1].Contains(netip.MustParseAddr("192.168.1.11")))
	assert.True(t, prefixes[2].Contains(netip.MustParseAddr("172.16.0.1")))
}
