package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string     `env:"HTTP_ADDR" envDefault:":8000"`
	LogLevel   slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	CORSOrigin string     `env:"CORS_ORIGIN" envDefault:"*"`

	// LocationsFile is a JSON dataset; empty means the embedded one.
	LocationsFile string `env:"LOCATIONS_FILE"`

	NewsAPIKey      string        `env:"NEWS_API_KEY"`
	NewsdataURL     string        `env:"NEWSDATA_URL" envDefault:"https://newsdata.io/api/1/latest"`
	GoogleNewsURL   string        `env:"GOOGLE_NEWS_URL" envDefault:"https://news.google.com/rss/search"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	CacheTTL             time.Duration `env:"CACHE_TTL" envDefault:"120m"`
	CacheJanitorInterval time.Duration `env:"CACHE_JANITOR_INTERVAL" envDefault:"0s"`

	SessionRetention     time.Duration `env:"SESSION_RETENTION" envDefault:"1h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
}

// Load reads the environment, after merging in a .env file from the
// working directory if there is one. Variables already set win.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

func LoadFiles(dotenv ...string) (*Config, error) {
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		return nil, errors.New("CACHE_TTL must be positive")
	}
	if cfg.SessionRetention <= 0 {
		return nil, errors.New("SESSION_RETENTION must be positive")
	}
	return &cfg, nil
}
