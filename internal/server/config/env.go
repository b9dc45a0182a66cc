package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with env tags. Pointer fields distinguish "unset"
// from zero values, so only variables actually present in the environment
// override earlier layers.
type envConfig struct {
	EndpointAddrHTTP             *string        `env:"ADDRESS"`
	DatabaseDSN                  *string        `env:"DATABASE_DSN"`
	SecretKey                    *string        `env:"SECRET_KEY"`
	SessionTokenValidityDuration *time.Duration `env:"SESSION_TOKEN_VALIDITY"`
	BcryptCost                   *int           `env:"BCRYPT_COST"`
}

// parseEnv overlays values from environment variables onto config.
// Malformed values panic, consistent with the JSON layer.
func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.SessionTokenValidityDuration != nil {
		config.SessionTokenValidityDuration = *c.SessionTokenValidityDuration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
}
