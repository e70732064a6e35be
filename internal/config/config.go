package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Store drivers. memory keeps nothing across runs; fs writes one file per
// key under StorePath; sqlite and postgres use the local_store table.
const (
	StoreMemory   = "memory"
	StoreFS       = "fs"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

const envPrefix = "COURSEWARE_"

type Config struct {
	Mode      Mode   `env:"MODE" envDefault:"offline"`
	Namespace string `env:"NAMESPACE" envDefault:"mindengage"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"fs"`
	StoreDSN    string `env:"STORE_DSN"`
	StorePath   string `env:"STORE_PATH" envDefault:"./data"`

	DiscoveryMaxDepth int `env:"DISCOVERY_MAX_DEPTH" envDefault:"7"`

	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	AuthSecret  string   `env:"AUTH_SECRET"`
	MaxSessions int      `env:"MAX_SESSIONS" envDefault:"1000"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

const devSecret = "supersecret-dev-key"

var ErrInvalid = errors.New("invalid config")

// FromEnv reads COURSEWARE_* variables from the process environment.
func FromEnv() (Config, error) {
	return parse(env.Options{Prefix: envPrefix})
}

// FromMap is FromEnv over an explicit environment, for tests and embedding.
func FromMap(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: envPrefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.AuthSecret == "" && cfg.Mode == ModeOffline {
		cfg.AuthSecret = devSecret
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalid, c.Mode)
	}
	switch c.StoreDriver {
	case StoreMemory, StoreFS, StoreSQLite:
	case StorePostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: postgres store needs %sSTORE_DSN", ErrInvalid, envPrefix)
		}
	default:
		return fmt.Errorf("%w: store driver %q", ErrInvalid, c.StoreDriver)
	}
	if c.Mode == ModeOnline && c.AuthSecret == "" {
		return fmt.Errorf("%w: online mode needs %sAUTH_SECRET", ErrInvalid, envPrefix)
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("%w: negative session cap", ErrInvalid)
	}
	if c.DiscoveryMaxDepth < 0 {
		return fmt.Errorf("%w: negative discovery depth", ErrInvalid)
	}
	return nil
}
