package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
user = "booking"
dbname = "booking"
password = "from-file"

[auth]
jwt_secret = "file-secret"

[booking]
min_lead_minutes = 60
completion_schedule = "*/10 * * * *"
`)

	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout, "defaults survive partial sections")
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Booking.MinLead())
	assert.Equal(t, 15*time.Minute, cfg.Booking.CompletionGrace())
	assert.Equal(t, "*/10 * * * *", cfg.Booking.CompletionSchedule)
	assert.Contains(t, cfg.Database.DSN(), "password=from-env")
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
user = "booking"
dbname = "booking"
`)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Database.User = "u"
	cfg.Database.DBName = "d"
	cfg.Auth.JWTSecret = "s"
	require.NoError(t, cfg.Validate())

	cfg.Events.Enabled = true
	cfg.Events.Channel = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Database.User = "u"
	cfg.Database.DBName = "d"
	cfg.Auth.JWTSecret = "s"
	cfg.Booking.MinLeadMinutes = -5
	assert.Error(t, cfg.Validate())
}

func TestValidate_TrustedProxies(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
		wantErr bool
	}{
		{name: "empty", proxies: nil},
		{name: "ip and cidr", proxies: []string{"127.0.0.1", "10.0.0.0/8", "::1"}},
		{name: "hostname", proxies: []string{"proxy.local"}, wantErr: true},
		{name: "bad mask", proxies: []string{"10.0.0.0/40"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.User = "u"
			cfg.Database.DBName = "d"
			cfg.Auth.JWTSecret = "s"
			cfg.RateLimit.TrustedProxies = tt.proxies

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, "rate_limit.trusted_proxies")
				return
			}
			assert.NoError(t, err)
		})
	}
}
