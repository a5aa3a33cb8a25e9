package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv overlays the PROCSCHED_* variables of the process environment.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(env.Options{Prefix: EnvPrefix})
}

// ApplyEnvMap overlays the PROCSCHED_* entries of environ. Variables that are
// not set leave the current values untouched.
func (c *Config) ApplyEnvMap(environ map[string]string) error {
	return c.applyEnv(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func (c *Config) applyEnv(opts env.Options) error {
	err := env.ParseWithOptions(c, opts)
	if err != nil {
		return fmt.Errorf("reading %s* variables: %w", EnvPrefix, err)
	}

	return nil
}
