package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[database]
dbname = "studio"
user = "studio"

[auth]
jwt_secret = "file-secret"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(writeConfig(t, minimalConfig))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Availability.GranularityMinutes)
	assert.Equal(t, 3, cfg.Worker.EmailMaxAttempts)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, "email_jobs", cfg.Email.QueueName)
	assert.Equal(t, "host=localhost port=5432 user=studio password= dbname=studio sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STUDIO_JWT_SECRET", "env-secret")
	t.Setenv("STUDIO_DB_PASSWORD", "s3cret")

	cfg, err := Load(writeConfig(t, minimalConfig))

	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.Database.DBName = "studio"
		c.Auth.JWTSecret = "x"
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "missing jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "missing dbname", mutate: func(c *Config) { c.Database.DBName = "" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Server.HTTPPort = 70000 }, wantErr: true},
		{name: "granularity too large", mutate: func(c *Config) { c.Availability.GranularityMinutes = 90 }, wantErr: true},
		{name: "stripe without webhook token", mutate: func(c *Config) {
			c.Stripe.Enabled = true
			c.Stripe.SecretKey = "sk_test"
			c.Stripe.WebhookSecret = "whsec"
		}, wantErr: true},
		{name: "stripe fully configured", mutate: func(c *Config) {
			c.Stripe.Enabled = true
			c.Stripe.SecretKey = "sk_test"
			c.Stripe.WebhookSecret = "whsec"
			c.Stripe.WebhookToken = "tok"
		}},
		{name: "tracing without endpoint", mutate: func(c *Config) { c.Tracing.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			err := c.Validate()

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
