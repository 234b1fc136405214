package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qadesk/qadesk/internal/config"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, config.DatabaseTypeMemory, cfg.DatabaseType)
	assert.Equal(t, "qadesk", cfg.DatabaseName)
	assert.Equal(t, time.Hour, cfg.JWTTokenTTL)
	assert.False(t, cfg.EnableAnonymousAuth)
	assert.False(t, cfg.GeneratorFetchPages)
	assert.Equal(t, 5*time.Second, cfg.GeneratorFetchTimeout)
	assert.Equal(t, int64(1<<20), cfg.GeneratorMaxBodyBytes)
	assert.False(t, cfg.GeneratorAllowPrivateHosts)
	assert.Empty(t, cfg.AdminPrincipals)
}

func TestParse_FromEnvironment(t *testing.T) {
	t.Setenv("QADESK_SERVER_ADDRESS", ":9090")
	t.Setenv("QADESK_DATABASE_TYPE", "mongodb")
	t.Setenv("QADESK_JWT_TOKEN_TTL", "15m")
	t.Setenv("QADESK_ENABLE_ANONYMOUS_AUTH", "true")
	t.Setenv("QADESK_ADMIN_PRINCIPALS", "oidc:1,oidc:2")
	t.Setenv("QADESK_GENERATOR_ALLOW_PRIVATE_HOSTS", "true")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, config.DatabaseTypeMongoDB, cfg.DatabaseType)
	assert.Equal(t, 15*time.Minute, cfg.JWTTokenTTL)
	assert.True(t, cfg.EnableAnonymousAuth)
	assert.Equal(t, []string{"oidc:1", "oidc:2"}, cfg.AdminPrincipals)
	assert.True(t, cfg.GeneratorAllowPrivateHosts)
}

func TestParse_InvalidValue(t *testing.T) {
	t.Setenv("QADESK_JWT_TOKEN_TTL", "forever")

	_, err := config.Parse()
	assert.Error(t, err)
	assert.Panics(t, func() { config.NewConfig() })
}

func TestConfig_IsAdminPrincipal(t *testing.T) {
	cfg := &config.Config{AdminPrincipals: []string{"oidc:root", ""}}

	assert.True(t, cfg.IsAdminPrincipal("oidc:root"))
	assert.False(t, cfg.IsAdminPrincipal("oidc:other"))
	assert.False(t, cfg.IsAdminPrincipal(""))
}
