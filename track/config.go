package track

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/YuminosukeSato/runtrack/pkg/errors"
)

// RemoteConfig holds the creation parameters for a remote tracking sink.
// Endpoint addresses one run's store on the tracking service.
type RemoteConfig struct {
	Endpoint string        `env:"RUNTRACK_ENDPOINT"`
	APIToken string        `env:"RUNTRACK_API_TOKEN"`
	Project  string        `env:"RUNTRACK_PROJECT"`
	Timeout  time.Duration `env:"RUNTRACK_TIMEOUT" envDefault:"30s"`
}

// ConfigFromEnv reads RemoteConfig from RUNTRACK_* environment variables.
// This is an explicit call by the integrating code; nothing in this module
// reads the environment on its own.
func ConfigFromEnv() (RemoteConfig, error) {
	var cfg RemoteConfig
	if err := env.Parse(&cfg); err != nil {
		return RemoteConfig{}, errors.Wrap(err, "parsing RUNTRACK_* environment")
	}
	return cfg, nil
}

func (c RemoteConfig) validate() error {
	if c.Endpoint == "" {
		return errors.NewValidationError("endpoint", "must not be empty", c.Endpoint)
	}
	return nil
}
