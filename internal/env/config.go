package env

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config carries the connection settings that may come from the
// environment. Flags given explicitly on the command line win over
// these.
type Config struct {
	Host      string `env:"CREDIS_HOST"`
	Port      int    `env:"CREDIS_PORT"`
	TimeoutMS int    `env:"CREDIS_TIMEOUT_MS"`
	DebugHTTP bool   `env:"CREDIS_DEBUG_HTTP"`
}

// Timeout returns the configured operation timeout, or zero when the
// environment does not set one.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func LoadConfig(ctx context.Context) (*Config, error) {
	config := Config{}

	if err := godotenv.Load(".env.local"); err != nil {
		if !os.IsNotExist(err) {
			panic(err)
		}
	}

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, err
	}

	return &config, nil
}
