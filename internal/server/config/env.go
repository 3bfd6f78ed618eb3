package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv overlays environment values onto cfg. Unset variables leave the
// current value in place.
func parseEnv(cfg *Config, environment map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return fmt.Errorf("config: env: %w", err)
	}
	return nil
}

// readDotenv returns the key-value pairs of a dotenv file. A missing or
// unparsable file yields an empty map.
func readDotenv(path string) map[string]string {
	m, err := godotenv.Read(path)
	if err != nil {
		return map[string]string{}
	}
	return m
}
