package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "meetingroom", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)

	assert.Equal(t, 60*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "meetingroom", cfg.JWT.Issuer)

	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, uint32(5), cfg.Breaker.FailureThreshold)
	assert.Equal(t, 60*time.Second, cfg.Breaker.RecoveryTimeout)
	assert.Equal(t, uint32(2), cfg.Breaker.HalfOpenSuccesses)

	assert.False(t, cfg.OTel.Enabled)
}

func TestLoadService_Overrides(t *testing.T) {
	cfg, err := LoadService("bookings-service", 8003)
	require.NoError(t, err)

	assert.Equal(t, "bookings-service", cfg.App.Name)
	assert.Equal(t, "bookings-service", cfg.OTel.ServiceName)
	assert.Equal(t, 8003, cfg.Server.Port)

	assert.Equal(t, "http://users-service:8001", cfg.Services.UsersServiceURL)
	assert.Equal(t, "http://rooms-service:8002", cfg.Services.RoomsServiceURL)
}

func TestLoadService_EnvWinsOverDefault(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("APP_ENVIRONMENT", "production")

	cfg, err := LoadService("users-service", 8001)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "database host"},
		{"missing jwt secret", func(c *Config) { c.JWT.Secret = "" }, "jwt secret"},
		{"zero client timeout", func(c *Config) { c.Client.Timeout = 0 }, "client timeout"},
		{"zero failure threshold", func(c *Config) { c.Breaker.FailureThreshold = 0 }, "failure threshold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
