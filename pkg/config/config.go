// Package config loads runtime settings for the rentcast commands from the
// environment. Command-line flags are applied on top by the commands.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-rentcast/pkg/predict"
)

// ErrInvalid marks settings that parsed but cannot be used.
var ErrInvalid = errors.New("config: invalid")

// Client configures the terminal estimator.
type Client struct {
	Endpoint  string        `env:"RENTCAST_ENDPOINT"  envDefault:"http://127.0.0.1:5000/predict"`
	Form      string        `env:"RENTCAST_FORM"`
	Templates string        `env:"RENTCAST_TEMPLATES"`
	Animation time.Duration `env:"RENTCAST_ANIMATION" envDefault:"1s"`
	LogLevel  string        `env:"RENTCAST_LOG_LEVEL" envDefault:"warn"`
	Timeout   time.Duration `env:"RENTCAST_TIMEOUT"`
	Validate  bool          `env:"RENTCAST_VALIDATE"`
}

// Stub configures the local prediction service.
type Stub struct {
	Addr       string `env:"RENTCAST_STUB_ADDR"   envDefault:"127.0.0.1:5000"`
	PriceTable string `env:"RENTCAST_PRICE_TABLE"`
	LogLevel   string `env:"RENTCAST_LOG_LEVEL"   envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadClient reads the estimator settings from the environment.
func LoadClient() (Client, error) {
	var cfg Client
	if err := ParseEnv(&cfg); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

// LoadStub reads the stub service settings from the environment.
func LoadStub() (Stub, error) {
	var cfg Stub
	if err := ParseEnv(&cfg); err != nil {
		return Stub{}, err
	}
	return cfg, nil
}

// Check reports settings that cannot be used. An empty endpoint falls back to
// the default collaborator.
func (c *Client) Check() error {
	if c.Endpoint == "" {
		c.Endpoint = predict.DefaultEndpoint
	}
	if c.Animation < 0 {
		return fmt.Errorf("%w: animation duration %s is negative", ErrInvalid, c.Animation)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout %s is negative", ErrInvalid, c.Timeout)
	}
	return nil
}
