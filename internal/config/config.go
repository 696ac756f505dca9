package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env       string    `mapstructure:"env"` // local or production
	Log       Log       `mapstructure:"log"`
	Database  Database  `mapstructure:"database"`
	Session   Session   `mapstructure:"session"`
	Reminders Reminders `mapstructure:"reminders"`
	Telegram  Telegram  `mapstructure:"telegram"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// Database contains database-related configuration parameters.
type Database struct {
	Driver       string `mapstructure:"driver"`         // sqlite3 or postgres
	DSN          string `mapstructure:"dsn"`            // file path for sqlite3, connection URL for postgres
	MaxOpenConns int    `mapstructure:"max_open_conns"` // ignored by sqlite3
}

// Session bounds what a caller may request from the engine.
type Session struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// Reminders configures the due-word reminder job.
type Reminders struct {
	Enabled   bool          `mapstructure:"enabled"`
	Every     time.Duration `mapstructure:"every"`
	StartHour int           `mapstructure:"start_hour"` // first hour of the day reminders may go out
	EndHour   int           `mapstructure:"end_hour"`   // last hour, inclusive
	MaxWords  int           `mapstructure:"max_words"`  // cap on the count shown in one reminder
	Timezone  string        `mapstructure:"timezone"`
}

// Telegram holds the bot credentials used by the reminder notifier.
type Telegram struct {
	Token string `mapstructure:"-"`
}

// Load reads .env, config/config.yaml and the environment, in increasing priority.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("database.driver", "DB_DRIVER", "DATABASE_DRIVER")
	_ = v.BindEnv("database.dsn", "DATABASE_URL", "DATABASE_DSN")
	_ = v.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.Telegram.Token = v.GetString("telegram_bot_token")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "data/vocab.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("session.default_limit", 10)
	v.SetDefault("session.max_limit", 100)
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.every", "1h")
	v.SetDefault("reminders.start_hour", 8)
	v.SetDefault("reminders.end_hour", 22)
	v.SetDefault("reminders.max_words", 20)
	v.SetDefault("reminders.timezone", "UTC")
}

// Validate checks ranges that viper cannot express.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("%w: database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("%w: database.dsn is empty", ErrInvalidConfig)
	}
	if c.Session.MaxLimit <= 0 || c.Session.DefaultLimit <= 0 || c.Session.DefaultLimit > c.Session.MaxLimit {
		return fmt.Errorf("%w: session limits %d/%d", ErrInvalidConfig, c.Session.DefaultLimit, c.Session.MaxLimit)
	}
	r := c.Reminders
	if r.StartHour < 0 || r.StartHour > 23 || r.EndHour < 0 || r.EndHour > 23 {
		return fmt.Errorf("%w: reminder hours %d-%d", ErrInvalidConfig, r.StartHour, r.EndHour)
	}
	if r.Every <= 0 || r.MaxWords <= 0 {
		return fmt.Errorf("%w: reminders.every and reminders.max_words must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(r.Timezone); err != nil {
		return fmt.Errorf("%w: reminders.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Location returns the reminder timezone. Validate guarantees it loads.
func (r Reminders) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
