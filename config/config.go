package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	ContentStore
	HTTPServer
	Snapshot
	Search
	Log
}

type ContentStore struct {
	ProjectID  string        `env:"SANITY_PROJECT_ID"`
	Dataset    string        `env:"SANITY_DATASET" env-default:"production"`
	Token      string        `env:"SANITY_API_TOKEN"`
	APIVersion string        `env:"SANITY_API_VERSION" env-default:"2024-02-12"`
	UseCDN     bool          `env:"SANITY_USE_CDN" env-default:"true"`
	BaseURL    string        `env:"SANITY_BASE_URL"`
	Timeout    time.Duration `env:"SANITY_TIMEOUT" env-default:"10s"`
}

type HTTPServer struct {
	BindAddress     string        `env:"BIND_ADDRESS" env-default:"localhost"`
	BindPort        string        `env:"BIND_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"10s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
}

type Snapshot struct {
	Path    string `env:"SNAPSHOT_PATH" env-default:"data/badger"`
	Offline bool   `env:"OFFLINE" env-default:"false"`
}

type Search struct {
	QuietPeriod  time.Duration `env:"SEARCH_QUIET_PERIOD" env-default:"300ms"`
	SummaryLimit int           `env:"SEARCH_SUMMARY_LIMIT" env-default:"10"`
}

type Log struct {
	Level      string `env:"LOG_LEVEL" env-default:"info"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" env-default:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" env-default:"14"`
}

// New reads the optional env file and then the process environment.
func New(env string) (*Config, error) {
	conf := &Config{}

	if env != "" {
		if _, err := os.Stat(env); err == nil {
			if err := godotenv.Overload(env); err != nil {
				return nil, fmt.Errorf("godotenv.Overload: %w", err)
			}
		}
	}

	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, fmt.Errorf("cleanenv.ReadEnv: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks values cleanenv cannot express with tags.
func (c *Config) Validate() error {
	if c.QuietPeriod < 200*time.Millisecond || c.QuietPeriod > 300*time.Millisecond {
		return fmt.Errorf("SEARCH_QUIET_PERIOD must be between 200ms and 300ms, got %s", c.QuietPeriod)
	}
	if c.SummaryLimit < 1 {
		return errors.New("SEARCH_SUMMARY_LIMIT must be positive")
	}
	if !c.Offline && c.ProjectID == "" && c.BaseURL == "" {
		return errors.New("SANITY_PROJECT_ID is required unless OFFLINE is set")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (h HTTPServer) Addr() string {
	return fmt.Sprintf("%v:%v", h.BindAddress, h.BindPort)
}

// CanWrite reports whether the content store is configured for writes.
func (c ContentStore) CanWrite() bool {
	return c.Token != ""
}
