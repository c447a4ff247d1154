package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "this-is-a-very-secure-secret-key-for-production-use-1234"

func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnvs(t, map[string]string{"ENVIRONMENT": "development"})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.HTTPPort)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 256, cfg.EventQueueSize)
	assert.Equal(t, 2, cfg.EventWorkers)
	assert.Equal(t, 5*time.Second, cfg.EventPublishTimeout)
	assert.Empty(t, cfg.PprofAllowedCIDRs)
}

func TestLoad_Development_AcceptsDefaultSecret(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
		"JWT_SECRET":  defaultJWTSecret,
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
}

func TestLoad_NonDevelopmentSecrets(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr string
	}{
		{"production default", "production", defaultJWTSecret, "JWT_SECRET must be explicitly set"},
		{"staging default", "staging", defaultJWTSecret, "JWT_SECRET must be explicitly set"},
		{"production short", "production", "short-but-not-default-secret", "JWT_SECRET must be at least 32 characters"},
		{"production strong", "production", strongSecret, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnvs(t, map[string]string{"ENVIRONMENT": tt.env, "JWT_SECRET": tt.secret})

			cfg, err := Load()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.secret, cfg.JWTSecret)
				return
			}
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT":           "development",
		"USER_HTTP_PORT":        "8080",
		"KAFKA_BROKERS":         "k1:9092,k2:9092",
		"EVENT_PUBLISH_TIMEOUT": "250ms",
		"JWT_EXPIRY":            "1h",
		"PPROF_ALLOWED_CIDRS":   "10.0.0.0/8,127.0.0.1/32",
		"DB_MAX_CONNS":          "20",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, cfg.EventPublishTimeout)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1/32"}, cfg.PprofAllowedCIDRs)
	assert.Equal(t, int32(20), cfg.Postgres().MaxConns)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port out of range", "USER_HTTP_PORT", "70000"},
		{"zero expiry", "JWT_EXPIRY", "0s"},
		{"sample rate above one", "OTEL_SAMPLE_RATE", "1.5"},
		{"min conns above max", "DB_MIN_CONNS", "50"},
		{"unparseable duration", "EVENT_PUBLISH_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnvs(t, map[string]string{"ENVIRONMENT": "development", tt.key: tt.val})

			cfg, err := Load()
			assert.Nil(t, cfg)
			assert.Error(t, err)
		})
	}
}

func TestPostgres(t *testing.T) {
	cfg := &Config{
		PostgresHost:          "db",
		PostgresPort:          5433,
		PostgresUser:          "u",
		PostgresPass:          "p",
		PostgresDB:            "user_db",
		PostgresSSL:           "require",
		DBMaxConnLifetimeMins: 30,
	}

	pg := cfg.Postgres()
	assert.Equal(t, "postgres://u:p@db:5433/user_db?sslmode=require", pg.DSN())
	assert.Equal(t, 30*time.Minute, pg.MaxConnLifetime)
}
