package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:          "8375",
		Env:           "development",
		JWTSecret:     "a-very-long-development-secret-value-123",
		DBDriver:      "sqlite",
		StorageDriver: "disk",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid development config", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Port = "" }, wantErr: "PORT is required"},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "unknown db driver", mutate: func(c *Config) { c.DBDriver = "mysql" }, wantErr: "DB_DRIVER"},
		{name: "unknown storage driver", mutate: func(c *Config) { c.StorageDriver = "ftp" }, wantErr: "STORAGE_DRIVER"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.StorageDriver = "s3" }, wantErr: "S3_BUCKET"},
		{
			name: "production default secret",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = defaultJWTSecret
			},
			wantErr: "changed from the default",
		},
		{
			name: "production short secret",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "short"
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "production weak db password",
			mutate: func(c *Config) {
				c.Env = "production"
				c.DBDriver = "postgres"
				c.DBPassword = "password"
			},
			wantErr: "DB_PASSWORD",
		},
		{
			name: "production echoes reset token",
			mutate: func(c *Config) {
				c.Env = "production"
				c.AuthEchoResetToken = true
			},
			wantErr: "AUTH_ECHO_RESET_TOKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("UPLOAD_MAX_SIZE_MB", "5")
	t.Setenv("AUTH_ECHO_RESET_TOKEN", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "blogify-api", cfg.JWTIssuer)
	assert.True(t, cfg.AuthEchoResetToken)
	assert.Equal(t, int64(5<<20), cfg.UploadMaxBytes())
}

func TestUploadMaxBytesDefault(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, int64(2<<20), cfg.UploadMaxBytes())
}
