package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultValues(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:10000", cfg.Address())
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 0, cfg.LogLevel)
	assert.Equal(t, "on", cfg.GinLogging)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.StoreRetryInterval)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "mycontacts", cfg.Mongo.Database)
	assert.Equal(t, "devsecret", cfg.Auth.TokenSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, PolicyStrict, cfg.Validation.Policy)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORS.AllowedOrigins)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
	}{
		{
			name:    "server address",
			envVars: map[string]string{"HOST": "127.0.0.1", "PORT": "8080"},
			expected: func(cfg *Config) {
				assert.Equal(t, "127.0.0.1:8080", cfg.Address())
			},
		},
		{
			name: "mysql store",
			envVars: map[string]string{
				"STORE_DRIVER": "mysql",
				"DBUSER":       "dirk",
				"DBPWD":        "bullo92",
				"DBHOST":       "db:3306",
				"DBNAME":       "contacts",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, DriverMySQL, cfg.StoreDriver)
				assert.Equal(t, "dirk:bullo92@tcp(db:3306)/contacts?parseTime=true&loc=UTC", cfg.MySQL.DSN())
			},
		},
		{
			name: "token settings",
			envVars: map[string]string{
				"ACCESS_TOKEN_SECRET": "s3cr3t",
				"ACCESS_TOKEN_TTL":    "30m",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "s3cr3t", cfg.Auth.TokenSecret)
				assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
			},
		},
		{
			name:    "cors origins",
			envVars: map[string]string{"CORS_ORIGINS": "https://my-contact.example.com"},
			expected: func(cfg *Config) {
				assert.Equal(t, []string{"https://my-contact.example.com"}, cfg.CORS.AllowedOrigins)
			},
		},
		{
			name:    "lenient validation",
			envVars: map[string]string{"VALIDATION_POLICY": "lenient"},
			expected: func(cfg *Config) {
				assert.Equal(t, PolicyLenient, cfg.Validation.Policy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			cfg, err := NewConfig()
			require.NoError(t, err)
			tt.expected(cfg)
		})
	}
}

func TestNewConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "postgres"}},
		{"unknown policy", map[string]string{"VALIDATION_POLICY": "rfc"}},
		{"bad ttl", map[string]string{"ACCESS_TOKEN_TTL": "soon"}},
		{"negative ttl", map[string]string{"ACCESS_TOKEN_TTL": "-1h"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}
