package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the collector needs at runtime. Values come from
// config.yaml when present, with BOREAS_* environment variables taking
// precedence over the file.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	LeagueStat LeagueStatConfig `mapstructure:"leaguestat"`
	Wikipedia  WikipediaConfig  `mapstructure:"wikipedia"`
	Update     UpdateConfig     `mapstructure:"update"`
	LogLevel   string           `mapstructure:"log_level"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LeagueStatConfig points at the hockeytech game report endpoint.
type LeagueStatConfig struct {
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	ClientCode string        `mapstructure:"client_code" validate:"required"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// WikipediaConfig points at the wiki used for arena coordinate lookups.
type WikipediaConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// UpdateConfig controls the incremental scan window.
type UpdateConfig struct {
	Lookback   int           `mapstructure:"lookback" validate:"min=0"`
	Span       int           `mapstructure:"span" validate:"min=1"`
	FetchDelay time.Duration `mapstructure:"fetch_delay"`
}

// Load reads .env (if present), then config.yaml, then applies environment
// overrides, and validates the result. A missing config file is fine; the
// defaults describe the production AHL setup.
func Load() (*Config, error) {
	_ = godotenv.Load()

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("boreas")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("database.path", "games.db")
	viper.SetDefault("leaguestat.base_url", "https://lscluster.hockeytech.com/game_reports")
	viper.SetDefault("leaguestat.client_code", "ahl")
	viper.SetDefault("leaguestat.timeout", 10*time.Second)
	viper.SetDefault("wikipedia.base_url", "https://en.wikipedia.org")
	viper.SetDefault("update.lookback", 16)
	viper.SetDefault("update.span", 32)
	viper.SetDefault("update.fetch_delay", time.Second)
	viper.SetDefault("log_level", "info")
}
