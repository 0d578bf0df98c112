package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Credentials are the backend login, taken from the environment so the
// password never sits in the config file.
type Credentials struct {
	Username string `env:"BALLOON_USERNAME"`
	Password string `env:"BALLOON_PASSWORD"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// GetCredentials merges the environment with the api.* config keys. The
// environment wins for fields it sets.
func GetCredentials() (Credentials, error) {
	var creds Credentials
	if err := ParseEnv(&creds); err != nil {
		return Credentials{}, err
	}
	if creds.Username == "" {
		creds.Username = viper.GetString("api.username")
	}
	if creds.Password == "" {
		creds.Password = viper.GetString("api.password")
	}
	return creds, nil
}
