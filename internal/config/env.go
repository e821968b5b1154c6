package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ServerEnv holds listener settings for the HTTP API. These come from the
// process environment rather than the YAML config so deployments can set
// them without a config file.
type ServerEnv struct {
	Addr         string        `env:"ROICALC_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"ROICALC_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"ROICALC_WRITE_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes int           `env:"ROICALC_MAX_BODY_BYTES" envDefault:"1048576"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Variables already set are left alone. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ParseServerEnv reads ServerEnv from the environment.
func ParseServerEnv() (ServerEnv, error) {
	var se ServerEnv
	if err := env.Parse(&se); err != nil {
		return ServerEnv{}, fmt.Errorf("parse env: %w", err)
	}
	if se.MaxBodyBytes <= 0 {
		return ServerEnv{}, fmt.Errorf("ROICALC_MAX_BODY_BYTES must be positive, got %d", se.MaxBodyBytes)
	}
	return se, nil
}
