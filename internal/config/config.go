package config

import (
	"time"

	env "github.com/caarlos0/env/v11"
)

type DatabaseType string

const (
	DatabaseTypeMemory     DatabaseType = "memory"
	DatabaseTypeMongoDB    DatabaseType = "mongodb"
	DatabaseTypePostgreSQL DatabaseType = "postgresql"
)

// EnvPrefix is prepended to every variable name below
const EnvPrefix = "QADESK_"

// Config holds the application configuration
type Config struct {
	ServerAddress string       `env:"SERVER_ADDRESS" envDefault:":8080"`
	DatabaseType  DatabaseType `env:"DATABASE_TYPE" envDefault:"memory"`
	DatabaseURL   string       `env:"DATABASE_URL" envDefault:"postgres://localhost:5432/qadesk?sslmode=disable"`
	DatabaseName  string       `env:"DATABASE_NAME" envDefault:"qadesk"`
	SeedFrom      string       `env:"SEED_FROM" envDefault:""`
	Version       string       `env:"VERSION" envDefault:"dev"`

	// Hex-encoded Ed25519 seed used to sign session tokens
	JWTPrivateKey string        `env:"JWT_PRIVATE_KEY" envDefault:""`
	JWTTokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"1h"`

	EnableAnonymousAuth bool `env:"ENABLE_ANONYMOUS_AUTH" envDefault:"false"`

	// OIDC Configuration
	OIDCEnabled      bool   `env:"OIDC_ENABLED" envDefault:"false"`
	OIDCIssuer       string `env:"OIDC_ISSUER" envDefault:""`
	OIDCClientID     string `env:"OIDC_CLIENT_ID" envDefault:""`
	OIDCClientSecret string `env:"OIDC_CLIENT_SECRET" envDefault:""`
	OIDCRedirectURL  string `env:"OIDC_REDIRECT_URL" envDefault:"http://localhost:8080/v0/auth/oidc/callback"`

	// Principals that are always admins, e.g. "oidc:1234"
	AdminPrincipals []string `env:"ADMIN_PRINCIPALS" envSeparator:","`

	// Page analysis in the test data generator
	GeneratorFetchPages   bool          `env:"GENERATOR_FETCH_PAGES" envDefault:"false"`
	GeneratorFetchTimeout time.Duration `env:"GENERATOR_FETCH_TIMEOUT" envDefault:"5s"`
	GeneratorMaxBodyBytes int64         `env:"GENERATOR_MAX_BODY_BYTES" envDefault:"1048576"`
	// Page analysis refuses loopback, private and link-local addresses unless this is set
	GeneratorAllowPrivateHosts bool `env:"GENERATOR_ALLOW_PRIVATE_HOSTS" envDefault:"false"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	cfg, err := Parse()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Parse reads the configuration from the environment
func Parse() (*Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix: EnvPrefix,
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsAdminPrincipal reports whether principal is listed in AdminPrincipals
func (c *Config) IsAdminPrincipal(principal string) bool {
	for _, p := range c.AdminPrincipals {
		if p == principal && p != "" {
			return true
		}
	}
	return false
}
