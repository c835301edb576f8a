package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"5000" env:"APP_PORT"`
		LogLevel   string `default:"info" env:"APP_LOG_LEVEL"`
	}
	Storage string `default:"memory" env:"STORAGE"`
	Database struct {
		Host     string `default:"localhost" env:"DB_HOST"`
		Port     string `default:"5432" env:"DB_PORT"`
		Name     string `default:"expenses" env:"DB_NAME"`
		User     string `default:"postgres" env:"DB_USER"`
		Password string `default:"postgres" env:"DB_PASSWORD"`
		SSLMode  string `default:"disable" env:"DB_SSLMODE"`
		Seed     *bool  `default:"true" env:"DB_SEED"`
	}
	Session struct {
		TTL string `default:"168h" env:"SESSION_TTL"`
	}
	Events struct {
		BufferSize int `default:"100" env:"EVENTS_BUFFER_SIZE"`
	}
}

func (c *Configuration) Addr() string {
	return fmt.Sprintf("%s:%d", c.App.ListenAddr, c.App.Port)
}

func (c *Configuration) DSN() string {
	d := c.Database
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (c *Configuration) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Session.TTL)
	if err != nil {
		return 0
	}
	return d
}

func (c *Configuration) Validate() error {
	switch c.Storage {
	case StorageMemory, StoragePostgres:
	default:
		return errors.Errorf("unknown storage %q", c.Storage)
	}
	if _, err := time.ParseDuration(c.Session.TTL); err != nil {
		return errors.Wrap(err, "parsing session ttl")
	}
	if c.Events.BufferSize <= 0 {
		return errors.New("events buffer size must be positive")
	}
	return nil
}

// Load reads .env (if present) into the environment, then fills the
// configuration from defaults, the given files that exist, and env vars.
func Load(files ...string) (*Configuration, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env")
	}

	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}

	conf := new(Configuration)
	if err := configor.New(&configor.Config{}).Load(conf, existing...); err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}
