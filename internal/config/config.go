package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config represents the application configuration structure
type Config struct {
	// Environment defines the environment the client runs in ('prod' enables production behaviour)
	Environment string `split_words:"true" default:"dev"`

	// ListenAddress defines the address the web client binds to
	ListenAddress string `split_words:"true" default:":3000"`

	// AllowedOrigin defines the origin the fragment endpoints accept cross-origin requests from
	AllowedOrigin string `split_words:"true" default:"*"`

	// MonitorAPIBaseURL defines the base URL of the upstream access-monitoring REST API
	MonitorAPIBaseURL string `envconfig:"monitor_api_base_url" default:"http://localhost:8080/api"`

	// LoginOpensSession controls whether a successful portal login also opens a session
	// immediately or leaves the user offline until an explicit access action.
	// The two modes reflect the two historical revisions of the login flow.
	LoginOpensSession bool `split_words:"true" default:"true"`

	// CollectProfile controls whether the admin add-user form collects and requires
	// the name, email and department profile fields
	CollectProfile bool `split_words:"true" default:"false"`
}

// LoadFromEnv loads a new configuration structure using environment variables and an optional .env file
func LoadFromEnv() (*Config, error) {
	// Load a .env file if it exists
	_ = godotenv.Overload()

	// Load a new configuration structure using environment variables
	config := new(Config)
	if err := envconfig.Process("ad", config); err != nil {
		return nil, err
	}
	return config, nil
}

// IsEnvProduction returns whether the client runs in a production environment
func (config *Config) IsEnvProduction() bool {
	return strings.EqualFold(config.Environment, "prod") || strings.EqualFold(config.Environment, "production")
}
